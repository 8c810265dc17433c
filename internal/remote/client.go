package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"analysis-backend/internal/panel"
)

const defaultTimeout = 2 * time.Minute

// ServiceError is a non-2xx response decoded from the API error envelope.
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// ErrorMessage is the user-facing message sent by the server.
func (e *ServiceError) ErrorMessage() string {
	return e.Message
}

// Client talks to the analysis API and implements panel.Remote.
type Client struct {
	BaseURL string
	UserID  string
	GuestID string
	HTTP    *http.Client
}

// New constructs a Client. Exactly one of userID or guestID should be set.
func New(baseURL, userID, guestID string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		UserID:  userID,
		GuestID: guestID,
		HTTP:    &http.Client{Timeout: defaultTimeout},
	}
}

type uploadResponse struct {
	DocumentID string `json:"documentId"`
	FileName   string `json:"fileName"`
}

// Upload sends a file as multipart form data attached to recordID.
func (c *Client) Upload(ctx context.Context, recordID, fileName string, body io.Reader) (panel.UploadedFile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if recordID != "" {
		if err := w.WriteField("recordId", recordID); err != nil {
			return panel.UploadedFile{}, err
		}
	}
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		return panel.UploadedFile{}, err
	}
	if _, err := io.Copy(part, body); err != nil {
		return panel.UploadedFile{}, fmt.Errorf("read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return panel.UploadedFile{}, err
	}

	var out uploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/files", w.FormDataContentType(), &buf, &out); err != nil {
		return panel.UploadedFile{}, err
	}
	return panel.UploadedFile{DocumentID: out.DocumentID, Name: out.FileName}, nil
}

type analyzeResponse struct {
	AnalysisID string `json:"analysisId"`
	Status     string `json:"status"`
	Result     string `json:"result"`
}

// Analyze runs the analysis of fileID and returns the raw result text.
func (c *Client) Analyze(ctx context.Context, fileID string) (string, error) {
	var out analyzeResponse
	path := "/api/v1/files/" + url.PathEscape(fileID) + "/analyze"
	if err := c.do(ctx, http.MethodPost, path, "", nil, &out); err != nil {
		return "", err
	}
	return out.Result, nil
}

// ListRelatedFiles returns the files attached to recordID, newest first.
func (c *Client) ListRelatedFiles(ctx context.Context, recordID string) ([]panel.FileOption, error) {
	var out []panel.FileOption
	path := "/api/v1/records/" + url.PathEscape(recordID) + "/files"
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OrgSettings is the org endpoint payload.
type OrgSettings struct {
	BaseURL     string `json:"baseUrl"`
	FlowAPIName string `json:"flowApiName"`
}

// GetOrgSettings returns the host org base URL and its configured workflow.
func (c *Client) GetOrgSettings(ctx context.Context) (OrgSettings, error) {
	var out OrgSettings
	if err := c.do(ctx, http.MethodGet, "/api/v1/org/base-url", "", nil, &out); err != nil {
		return OrgSettings{}, err
	}
	return out, nil
}

// GetOrgBaseURL returns the host org base URL.
func (c *Client) GetOrgBaseURL(ctx context.Context) (string, error) {
	settings, err := c.GetOrgSettings(ctx)
	if err != nil {
		return "", err
	}
	return settings.BaseURL, nil
}

type createRecordsRequest struct {
	JSONData string `json:"jsonData"`
	RecordID string `json:"recordId"`
}

type createRecordsResponse struct {
	IDs []string `json:"ids"`
}

// CreateRecords creates Energy Use records from an analysis result.
func (c *Client) CreateRecords(ctx context.Context, jsonText, recordID string) ([]string, error) {
	payload, err := json.Marshal(createRecordsRequest{JSONData: jsonText, RecordID: recordID})
	if err != nil {
		return nil, err
	}
	var out createRecordsResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/records", "application/json", bytes.NewReader(payload), &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.UserID != "" {
		req.Header.Set("X-User-Id", c.UserID)
	} else if c.GuestID != "" {
		req.Header.Set("X-Guest-Id", c.GuestID)
	}

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		svcErr := &ServiceError{Status: resp.StatusCode}
		var env errorEnvelope
		if err := json.Unmarshal(data, &env); err == nil && env.Error.Message != "" {
			svcErr.Code = env.Error.Code
			svcErr.Message = env.Error.Message
		} else {
			svcErr.Message = http.StatusText(resp.StatusCode)
		}
		return svcErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// IsStatus reports whether err is a ServiceError with the given status.
func IsStatus(err error, status int) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Status == status
}

var _ panel.Remote = (*Client)(nil)
