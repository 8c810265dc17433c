package analyses

import "errors"

var (
	ErrNotFound       = errors.New("analysis not found")
	ErrFileNotFound   = errors.New("file not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotAnalyzable  = errors.New("file cannot be analyzed")
	ErrLLMUnavailable = errors.New("llm not configured")
	ErrLLMTimeout     = errors.New("llm timeout")
	ErrLLMFailed      = errors.New("llm failed")
)

const (
	ErrorCodeNotAnalyzable = "NOT_ANALYZABLE"
	ErrorCodeLLMTimeout    = "LLM_TIMEOUT"
	ErrorCodeLLMFailed     = "LLM_FAILED"
	ErrorCodeStorage       = "STORAGE_ERROR"
	ErrorCodeInternal      = "INTERNAL_ERROR"
)
