package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"analysis-backend/internal/bootstrap"
	"analysis-backend/internal/llm"
	"analysis-backend/internal/shared/config"
)

const billResult = `[{"account_number":"ACC-1","due_date":"2024-03-15","amount_due":120.5},{"account_number":"ACC-2","due_date":"2024-04-15","amount_due":98}]`

type stubLLM struct {
	result string
	err    error
	inputs []llm.Input
}

func (s *stubLLM) AnalyzeDocument(_ context.Context, in llm.Input) (string, error) {
	s.inputs = append(s.inputs, in)
	return s.result, s.err
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
		OrgBaseURL:      "https://org.example.com",
		FlowAPIName:     "Process_AI_Analysis_Result",
		AnalyzeRate:     10,
		AnalyzeBurst:    10,
	}
}

func newRouter(t *testing.T, opts ...bootstrap.Option) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(testConfig(t), opts...)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app.Router
}

func addGuestHeader(req *http.Request) {
	req.Header.Set("X-Guest-Id", "guest-1")
}

func do(t *testing.T, router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func upload(t *testing.T, router *gin.Engine, recordID, name, content string) string {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("recordId", recordID); err != nil {
		t.Fatalf("write field: %v", err)
	}
	fileWriter, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte(content)); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addGuestHeader(req)
	resp := do(t, router, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected upload status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if created.DocumentID == "" {
		t.Fatalf("expected documentId")
	}
	return created.DocumentID
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return payload.Error.Code
}

func TestUploadAnalyzeCreateRecords(t *testing.T) {
	stub := &stubLLM{result: "```json\n" + billResult + "\n```"}
	router := newRouter(t, bootstrap.WithLLM(stub))

	fileID := upload(t, router, "rec-1", "bill.txt", "Account ACC-1 amount due 120.50")

	reqList := httptest.NewRequest(http.MethodGet, "/api/v1/records/rec-1/files", nil)
	addGuestHeader(reqList)
	respList := do(t, router, reqList)
	if respList.Code != http.StatusOK {
		t.Fatalf("expected list status 200, got %d", respList.Code)
	}
	var options []struct {
		Value string `json:"value"`
		Label string `json:"label"`
	}
	if err := json.NewDecoder(respList.Body).Decode(&options); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(options) != 1 || options[0].Value != fileID || options[0].Label != "bill.txt" {
		t.Fatalf("unexpected file options: %+v", options)
	}

	reqAnalyze := httptest.NewRequest(http.MethodPost, "/api/v1/files/"+fileID+"/analyze", nil)
	addGuestHeader(reqAnalyze)
	respAnalyze := do(t, router, reqAnalyze)
	if respAnalyze.Code != http.StatusOK {
		t.Fatalf("expected analyze status 200, got %d: %s", respAnalyze.Code, respAnalyze.Body.String())
	}
	var analyzed struct {
		AnalysisID string `json:"analysisId"`
		Status     string `json:"status"`
		Result     string `json:"result"`
	}
	if err := json.NewDecoder(respAnalyze.Body).Decode(&analyzed); err != nil {
		t.Fatalf("decode analyze response: %v", err)
	}
	if analyzed.Status != "completed" || analyzed.AnalysisID == "" {
		t.Fatalf("unexpected analyze response: %+v", analyzed)
	}
	if !strings.Contains(analyzed.Result, "ACC-2") {
		t.Fatalf("expected result to carry the model output, got %q", analyzed.Result)
	}
	if len(stub.inputs) != 1 || !strings.Contains(stub.inputs[0].Text, "ACC-1") {
		t.Fatalf("expected extracted text to reach the model, got %+v", stub.inputs)
	}

	payload, _ := json.Marshal(map[string]string{"jsonData": analyzed.Result, "recordId": "rec-1"})
	reqCreate := httptest.NewRequest(http.MethodPost, "/api/v1/records", bytes.NewReader(payload))
	reqCreate.Header.Set("Content-Type", "application/json")
	addGuestHeader(reqCreate)
	respCreate := do(t, router, reqCreate)
	if respCreate.Code != http.StatusCreated {
		t.Fatalf("expected create status 201, got %d: %s", respCreate.Code, respCreate.Body.String())
	}
	var created struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(respCreate.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if len(created.IDs) != 2 {
		t.Fatalf("expected 2 record ids, got %v", created.IDs)
	}

	reqRecords := httptest.NewRequest(http.MethodGet, "/api/v1/records/rec-1/energy-use", nil)
	addGuestHeader(reqRecords)
	respRecords := do(t, router, reqRecords)
	if respRecords.Code != http.StatusOK {
		t.Fatalf("expected energy-use status 200, got %d", respRecords.Code)
	}
	var records []struct {
		RowIndex      int    `json:"rowIndex"`
		AccountNumber string `json:"accountNumber"`
		DueDate       string `json:"dueDate"`
	}
	if err := json.NewDecoder(respRecords.Body).Decode(&records); err != nil {
		t.Fatalf("decode energy-use response: %v", err)
	}
	if len(records) != 2 || records[0].AccountNumber != "ACC-1" || records[1].DueDate != "2024-04-15" {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestAnalyzeWithoutProviderIsUnavailable(t *testing.T) {
	router := newRouter(t)
	fileID := upload(t, router, "rec-1", "bill.txt", "Account ACC-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/"+fileID+"/analyze", nil)
	addGuestHeader(req)
	resp := do(t, router, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d: %s", resp.Code, resp.Body.String())
	}
	if code := errorCode(t, resp); code != "llm_unavailable" {
		t.Fatalf("expected llm_unavailable, got %s", code)
	}
}

func TestAnalyzeUnknownFile(t *testing.T) {
	router := newRouter(t, bootstrap.WithLLM(&stubLLM{result: billResult}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/missing/analyze", nil)
	addGuestHeader(req)
	resp := do(t, router, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestCreateRecordsWithoutJSON(t *testing.T) {
	router := newRouter(t)

	payload, _ := json.Marshal(map[string]string{"jsonData": "the model said no", "recordId": "rec-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	addGuestHeader(req)
	resp := do(t, router, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != "invalid_json" {
		t.Fatalf("expected invalid_json, got %s", code)
	}
}

func TestOrgBaseURL(t *testing.T) {
	router := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/org/base-url", nil)
	addGuestHeader(req)
	resp := do(t, router, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var body struct {
		BaseURL     string `json:"baseUrl"`
		FlowAPIName string `json:"flowApiName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode org response: %v", err)
	}
	if body.BaseURL != "https://org.example.com" || body.FlowAPIName != "Process_AI_Analysis_Result" {
		t.Fatalf("unexpected org response: %+v", body)
	}
}

func TestMissingIdentity(t *testing.T) {
	router := newRouter(t)

	resp := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/records/rec-1/files", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	router := newRouter(t)

	resp := do(t, router, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"storage":"memory"`) {
		t.Fatalf("expected memory storage, got %s", resp.Body.String())
	}

	resp = do(t, router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "analysis_started_total") {
		t.Fatalf("expected analysis metrics in output")
	}
}
