package analyses

import "time"

const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis is one model run over an uploaded file. Result holds the raw model
// text exactly as returned.
type Analysis struct {
	ID           string
	UserID       string
	FileID       string
	Status       string
	Provider     string
	Model        string
	Result       string
	ErrorCode    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// Finished reports whether the analysis reached a terminal status.
func (a Analysis) Finished() bool {
	return a.Status == StatusCompleted || a.Status == StatusFailed
}
