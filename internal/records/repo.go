package records

import "context"

// Repo defines persistence operations for Energy Use records.
type Repo interface {
	CreateBatch(ctx context.Context, recs []EnergyUse) error
	ListByRecord(ctx context.Context, recordID string) ([]EnergyUse, error)
}
