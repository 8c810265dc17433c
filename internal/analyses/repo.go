package analyses

import "context"

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	Finish(ctx context.Context, analysis Analysis) error
	LatestForFile(ctx context.Context, fileID string) (Analysis, error)
}
