package llm

import (
	"context"
	"errors"
	"strings"
)

// Client abstracts LLM providers for document analysis.
type Client interface {
	AnalyzeDocument(ctx context.Context, input Input) (string, error)
}

// Input carries one document. Text is set for extractable documents, Image
// for image uploads that are sent to the model inline.
type Input struct {
	FileName string
	MimeType string
	Text     string
	Image    []byte
}

// IsImage reports whether the input should be sent as inline image bytes.
func (in Input) IsImage() bool {
	return len(in.Image) > 0
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// ErrEmptyResponse is returned when a provider answers with no text.
var ErrEmptyResponse = errors.New("LLM returned an empty response")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// AnalyzeDocument returns ErrNotImplemented.
func (PlaceholderClient) AnalyzeDocument(ctx context.Context, input Input) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}

// CleanResponse trims whitespace from model output and rejects blanks.
func CleanResponse(raw string) (string, error) {
	out := strings.TrimSpace(raw)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

var _ Client = PlaceholderClient{}
