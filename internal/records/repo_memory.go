package records

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.RWMutex
	byRecord map[string][]EnergyUse
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byRecord: make(map[string][]EnergyUse)}
}

// CreateBatch stores all records or none.
func (r *MemoryRepo) CreateBatch(ctx context.Context, recs []EnergyUse) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range recs {
		r.byRecord[rec.RecordID] = append(r.byRecord[rec.RecordID], rec)
	}
	return nil
}

// ListByRecord returns records of a context record, newest batch first and
// by row index within a batch.
func (r *MemoryRepo) ListByRecord(ctx context.Context, recordID string) ([]EnergyUse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	list := append([]EnergyUse(nil), r.byRecord[recordID]...)
	r.mu.RUnlock()

	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].RowIndex < list[j].RowIndex
	})
	return list, nil
}
