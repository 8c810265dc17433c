package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"google.golang.org/genai"

	"analysis-backend/internal/llm"
)

type fakeModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "gemini-2.5-flash"); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient(context.Background(), "key", ""); err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestAnalyzeDocumentSendsImageInline(t *testing.T) {
	fake := &fakeModels{resp: textResponse(genai.NewPartFromText(`{"amount_due":`), genai.NewPartFromText(`42}`))}
	client := &Client{models: fake, model: "gemini-2.5-flash"}

	out, err := client.AnalyzeDocument(context.Background(), llm.Input{
		FileName: "bill.jpg",
		MimeType: "image/jpeg",
		Image:    []byte{0xff, 0xd8, 0xff},
	})
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if out != `{"amount_due":42}` {
		t.Fatalf("unexpected output %q", out)
	}
	if fake.model != "gemini-2.5-flash" {
		t.Fatalf("unexpected model %q", fake.model)
	}
	parts := fake.contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected prompt and image parts, got %d", len(parts))
	}
	if !strings.Contains(parts[0].Text, `image named "bill.jpg"`) {
		t.Fatalf("unexpected prompt %q", parts[0].Text)
	}
	if parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "image/jpeg" {
		t.Fatalf("expected inline jpeg part, got %#v", parts[1])
	}
	if fake.config.ResponseMIMEType != "application/json" {
		t.Fatalf("expected json response mime, got %q", fake.config.ResponseMIMEType)
	}
}

func TestAnalyzeDocumentTextOnly(t *testing.T) {
	fake := &fakeModels{resp: textResponse(genai.NewPartFromText("[]"))}
	client := &Client{models: fake, model: "gemini-2.5-flash"}

	if _, err := client.AnalyzeDocument(context.Background(), llm.Input{Text: "Account A-1"}); err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}
	if n := len(fake.contents[0].Parts); n != 1 {
		t.Fatalf("expected a single text part, got %d", n)
	}
}

func TestAnalyzeDocumentErrors(t *testing.T) {
	client := &Client{models: &fakeModels{err: errors.New("quota")}, model: "m"}
	if _, err := client.AnalyzeDocument(context.Background(), llm.Input{Text: "x"}); err == nil || !strings.Contains(err.Error(), "quota") {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}

	client = &Client{models: &fakeModels{resp: &genai.GenerateContentResponse{}}, model: "m"}
	if _, err := client.AnalyzeDocument(context.Background(), llm.Input{Text: "x"}); !errors.Is(err, llm.ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
