package analyses

import "time"

// AnalysisResponse is the API shape of an analysis.
type AnalysisResponse struct {
	AnalysisID   string     `json:"analysisId"`
	FileID       string     `json:"fileId"`
	Status       string     `json:"status"`
	Result       string     `json:"result,omitempty"`
	ErrorCode    string     `json:"errorCode,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func toResponse(a Analysis) AnalysisResponse {
	return AnalysisResponse{
		AnalysisID:   a.ID,
		FileID:       a.FileID,
		Status:       a.Status,
		Result:       a.Result,
		ErrorCode:    a.ErrorCode,
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt,
		CompletedAt:  a.CompletedAt,
	}
}
