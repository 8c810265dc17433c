package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"analysis-backend/internal/extract"
	"analysis-backend/internal/files"
	"analysis-backend/internal/llm"
	"analysis-backend/internal/shared/metrics"
	"analysis-backend/internal/shared/telemetry"
)

const (
	defaultTimeout  = 90 * time.Second
	defaultMaxBytes = 10 << 20
)

// FileSource resolves uploaded files and their stored bytes.
type FileSource interface {
	Get(ctx context.Context, userID, fileID string) (files.File, error)
	Content(ctx context.Context, f files.File, max int64) ([]byte, error)
}

// Service runs analyses synchronously: the caller waits for the model.
type Service struct {
	Repo     Repo
	Files    FileSource
	LLM      llm.Client
	Provider string
	Model    string
	Timeout  time.Duration
	MaxBytes int64
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Analyze runs the model over a file and stores the outcome. A failed run is
// still persisted; the returned error says why it failed.
func (s *Service) Analyze(ctx context.Context, userID, fileID string) (Analysis, error) {
	if strings.TrimSpace(fileID) == "" {
		return Analysis{}, ErrInvalidInput
	}
	if s.LLM == nil {
		return Analysis{}, ErrLLMUnavailable
	}

	f, err := s.Files.Get(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return Analysis{}, ErrFileNotFound
		}
		return Analysis{}, err
	}

	analysis := Analysis{
		ID:        uuid.NewString(),
		UserID:    userID,
		FileID:    f.ID,
		Status:    StatusProcessing,
		Provider:  s.Provider,
		Model:     s.Model,
		CreatedAt: s.now(),
	}
	analysis.UpdatedAt = analysis.CreatedAt
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}

	metrics.IncAnalysisStarted()
	start := time.Now()
	telemetry.Info("analysis.started", map[string]any{
		"analysis_id": analysis.ID,
		"file_id":     f.ID,
		"provider":    s.Provider,
	})

	result, runErr := s.run(ctx, f)
	metrics.ObserveAnalysisDurationMs(metrics.Since(start))

	now := s.now()
	analysis.UpdatedAt = now
	analysis.CompletedAt = &now
	if runErr != nil {
		code := errorCode(runErr)
		analysis.Status = StatusFailed
		analysis.ErrorCode = code
		analysis.ErrorMessage = runErr.Error()
		metrics.IncAnalysisFailed(strings.ToLower(code))
		telemetry.Error("analysis.failed", map[string]any{
			"analysis_id": analysis.ID,
			"file_id":     f.ID,
			"error_code":  code,
			"error":       runErr.Error(),
		})
	} else {
		analysis.Status = StatusCompleted
		analysis.Result = result
		metrics.IncAnalysisCompleted()
		telemetry.Info("analysis.completed", map[string]any{
			"analysis_id":  analysis.ID,
			"file_id":      f.ID,
			"result_bytes": len(result),
		})
	}

	// The request context may already be done after a timeout.
	if err := s.Repo.Finish(context.WithoutCancel(ctx), analysis); err != nil {
		return analysis, fmt.Errorf("store analysis: %w", err)
	}
	return analysis, runErr
}

func (s *Service) run(ctx context.Context, f files.File) (string, error) {
	maxBytes := s.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	data, err := s.Files.Content(ctx, f, maxBytes)
	if err != nil {
		if errors.Is(err, files.ErrTooLarge) {
			return "", fmt.Errorf("%w: %v", ErrNotAnalyzable, err)
		}
		return "", err
	}

	input := llm.Input{FileName: f.FileName, MimeType: f.MimeType}
	if f.IsImage() {
		input.Image = data
	} else {
		text, err := extract.Text(ctx, data, f.MimeType, f.FileName)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrNotAnalyzable, err)
		}
		input.Text = text
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	llmCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := s.LLM.AnalyzeDocument(llmCtx, input)
	if err != nil {
		switch {
		case errors.Is(err, llm.ErrNotImplemented):
			return "", ErrLLMUnavailable
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(llmCtx.Err(), context.DeadlineExceeded):
			return "", fmt.Errorf("%w: %v", ErrLLMTimeout, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrLLMFailed, err)
		}
	}
	return out, nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotAnalyzable):
		return ErrorCodeNotAnalyzable
	case errors.Is(err, ErrLLMTimeout):
		return ErrorCodeLLMTimeout
	case errors.Is(err, ErrLLMFailed), errors.Is(err, ErrLLMUnavailable):
		return ErrorCodeLLMFailed
	case errors.Is(err, files.ErrNotFound):
		return ErrorCodeStorage
	default:
		return ErrorCodeInternal
	}
}

// Get returns an analysis owned by userID.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	if strings.TrimSpace(analysisID) == "" {
		return Analysis{}, ErrInvalidInput
	}
	a, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if a.UserID != userID {
		return Analysis{}, ErrNotFound
	}
	return a, nil
}

// Latest returns the most recent analysis of a file the caller can see.
func (s *Service) Latest(ctx context.Context, userID, fileID string) (Analysis, error) {
	f, err := s.Files.Get(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return Analysis{}, ErrFileNotFound
		}
		return Analysis{}, err
	}
	return s.Repo.LatestForFile(ctx, f.ID)
}
