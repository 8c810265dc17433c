package files

import "time"

// FileResponse is the outward-facing representation of a file.
type FileResponse struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	RecordID   string    `json:"recordId,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Option is one entry of a record's related-files picker.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func toResponse(f File) FileResponse {
	return FileResponse{
		DocumentID: f.ID,
		FileName:   f.FileName,
		MimeType:   f.MimeType,
		SizeBytes:  f.SizeBytes,
		RecordID:   f.RecordID,
		UploadedAt: f.CreatedAt,
	}
}

func toOptions(list []File) []Option {
	out := make([]Option, 0, len(list))
	for _, f := range list {
		out = append(out, Option{Value: f.ID, Label: f.FileName})
	}
	return out
}
