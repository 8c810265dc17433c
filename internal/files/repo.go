package files

import "context"

// Repo defines persistence operations for files.
type Repo interface {
	Create(ctx context.Context, f File) error
	GetByID(ctx context.Context, fileID string) (File, error)
	ListByRecord(ctx context.Context, recordID string, limit int) ([]File, error)
}
