package files

import (
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// File is an uploaded file, optionally attached to a context record.
type File struct {
	ID              string
	UserID          string
	RecordID        string
	FileName        string
	MimeType        string
	SizeBytes       int64
	Checksum        string
	StorageProvider string
	StorageKey      string
	CreatedAt       time.Time
}

// IsImage reports whether the file is an image the model reads directly.
func (f File) IsImage() bool {
	switch f.MimeType {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
		return true
	}
	return false
}

// allowedTypes are the mime types accepted for analysis.
var allowedTypes = []string{
	"application/pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"text/plain",
	"text/csv",
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
}

// Allowed reports whether a detected mime type is accepted. Parameters such
// as charset are ignored.
func Allowed(mimeType string) bool {
	return mimetype.EqualsAny(mimeType, allowedTypes...)
}
