package records

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"analysis-backend/internal/shared/metrics"
	"analysis-backend/internal/shared/telemetry"
)

// Service creates Energy Use records from analysis results.
type Service struct {
	Repo Repo
	Now  func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateFromJSON creates one record per usable row of jsonData and returns
// their ids in row order. No usable rows is not an error: the result is an
// empty slice.
func (s *Service) CreateFromJSON(ctx context.Context, userID, recordID, jsonData string) ([]string, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" || strings.TrimSpace(jsonData) == "" {
		return nil, ErrInvalidInput
	}

	recs, err := Build(jsonData)
	if err != nil {
		return nil, err
	}

	createdAt := s.now()
	ids := make([]string, 0, len(recs))
	for i := range recs {
		recs[i].ID = uuid.NewString()
		recs[i].UserID = userID
		recs[i].RecordID = recordID
		recs[i].CreatedAt = createdAt
		ids = append(ids, recs[i].ID)
	}

	if err := s.Repo.CreateBatch(ctx, recs); err != nil {
		return nil, err
	}

	metrics.AddRecordsCreated(len(ids))
	telemetry.Info("records.created", map[string]any{
		"record_id": recordID,
		"count":     len(ids),
	})
	return ids, nil
}

// List returns the Energy Use records of a context record.
func (s *Service) List(ctx context.Context, recordID string) ([]EnergyUse, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByRecord(ctx, recordID)
}
