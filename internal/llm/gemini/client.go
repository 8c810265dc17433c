package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"analysis-backend/internal/llm"
	"analysis-backend/internal/shared/telemetry"
)

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on the Gemini API. Images are sent inline.
type Client struct {
	models generator
	model  string
}

// NewClient constructs a Gemini client for model.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{models: gc.Models, model: model}, nil
}

// AnalyzeDocument renders the prompt and asks the model for JSON output.
func (c *Client) AnalyzeDocument(ctx context.Context, input llm.Input) (string, error) {
	prompt, err := llm.RenderPrompt(input)
	if err != nil {
		return "", err
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	if input.IsImage() {
		parts = append(parts, genai.NewPartFromBytes(input.Image, input.MimeType))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.SystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       &temp,
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := responseText(resp)
	fields := map[string]any{"provider": "gemini", "model": c.model}
	if resp != nil && resp.UsageMetadata != nil {
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
	return llm.CleanResponse(text)
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

var _ llm.Client = (*Client)(nil)
