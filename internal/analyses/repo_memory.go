package analyses

import (
	"context"
	"sync"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Analysis
	byFile map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Analysis),
		byFile: make(map[string][]string),
	}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[analysis.ID] = analysis
	r.byFile[analysis.FileID] = append(r.byFile[analysis.FileID], analysis.ID)
	return nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// Finish writes the terminal status, result and error fields.
func (r *MemoryRepo) Finish(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[analysis.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Status = analysis.Status
	existing.Result = analysis.Result
	existing.ErrorCode = analysis.ErrorCode
	existing.ErrorMessage = analysis.ErrorMessage
	existing.UpdatedAt = analysis.UpdatedAt
	existing.CompletedAt = analysis.CompletedAt
	r.byID[analysis.ID] = existing
	return nil
}

// LatestForFile returns the most recently created analysis of a file.
func (r *MemoryRepo) LatestForFile(ctx context.Context, fileID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byFile[fileID]
	if len(ids) == 0 {
		return Analysis{}, ErrNotFound
	}
	return r.byID[ids[len(ids)-1]], nil
}
