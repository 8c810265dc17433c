package files

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]File
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID: make(map[string]File),
	}
}

// Create stores a file.
func (r *MemoryRepo) Create(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[f.ID] = f
	return nil
}

// GetByID returns a file by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, fileID string) (File, error) {
	if err := ctx.Err(); err != nil {
		return File{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byID[fileID]
	if !ok {
		return File{}, ErrNotFound
	}
	return f, nil
}

// ListByRecord returns files attached to a record, newest first.
func (r *MemoryRepo) ListByRecord(ctx context.Context, recordID string, limit int) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	out := make([]File, 0)
	for _, f := range r.byID {
		if f.RecordID == recordID {
			out = append(out, f)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
