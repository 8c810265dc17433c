package records

import (
	"encoding/json"
	"time"
)

// CreateRequest is the body of POST /records.
type CreateRequest struct {
	JSONData string `json:"jsonData"`
	RecordID string `json:"recordId"`
}

// EnergyUseResponse is the API shape of an Energy Use record.
type EnergyUseResponse struct {
	ID                string          `json:"id"`
	RecordID          string          `json:"recordId"`
	RowIndex          int             `json:"rowIndex"`
	AccountNumber     string          `json:"accountNumber,omitempty"`
	DueDate           string          `json:"dueDate,omitempty"`
	ConsumptionAmount *float64        `json:"consumptionAmount,omitempty"`
	AmountDue         *float64        `json:"amountDue,omitempty"`
	Source            json.RawMessage `json:"source,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func toResponse(rec EnergyUse) EnergyUseResponse {
	resp := EnergyUseResponse{
		ID:                rec.ID,
		RecordID:          rec.RecordID,
		RowIndex:          rec.RowIndex,
		AccountNumber:     rec.AccountNumber,
		ConsumptionAmount: rec.ConsumptionAmount,
		AmountDue:         rec.AmountDue,
		Source:            rec.Source,
		CreatedAt:         rec.CreatedAt,
	}
	if rec.DueDate != nil {
		resp.DueDate = rec.DueDate.Format("2006-01-02")
	}
	return resp
}

func toResponses(list []EnergyUse) []EnergyUseResponse {
	out := make([]EnergyUseResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, toResponse(rec))
	}
	return out
}
