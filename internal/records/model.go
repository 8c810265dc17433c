package records

import (
	"encoding/json"
	"time"
)

// EnergyUse is one billing period created from an analysis result.
type EnergyUse struct {
	ID                string
	UserID            string
	RecordID          string
	RowIndex          int
	AccountNumber     string
	DueDate           *time.Time
	ConsumptionAmount *float64
	AmountDue         *float64
	Source            json.RawMessage
	CreatedAt         time.Time
}
