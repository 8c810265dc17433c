package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"analysis-backend/internal/shared/metrics"
	"analysis-backend/internal/shared/storage/object"
	"analysis-backend/internal/shared/telemetry"
)

const relatedFilesLimit = 200

// Service contains business logic for files.
type Service struct {
	Store           object.ObjectStore
	Repo            Repo
	StorageProvider string
	Now             func() time.Time
}

// UploadInput describes a file being uploaded.
type UploadInput struct {
	UserID   string
	RecordID string
	FileName string
	Body     io.Reader
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Upload checks the content type, saves the file to object storage and
// records it. The stored object is removed again if recording fails.
func (s *Service) Upload(ctx context.Context, in UploadInput) (File, error) {
	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" || in.Body == nil {
		return File{}, ErrInvalidInput
	}

	mimeType, body, err := object.Sniff(in.Body)
	if err != nil {
		return File{}, err
	}
	if !Allowed(mimeType) {
		return File{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	saved, err := s.Store.Save(ctx, in.UserID, fileName, body)
	if err != nil {
		return File{}, err
	}

	f := File{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		RecordID:        strings.TrimSpace(in.RecordID),
		FileName:        fileName,
		MimeType:        saved.MimeType,
		SizeBytes:       saved.SizeBytes,
		Checksum:        saved.Checksum,
		StorageProvider: s.StorageProvider,
		StorageKey:      saved.Key,
		CreatedAt:       s.now(),
	}

	if err := s.Repo.Create(ctx, f); err != nil {
		if delErr := s.Store.Delete(ctx, saved.Key); delErr != nil {
			telemetry.Warn("files.rollback_failed", map[string]any{
				"storage_key": saved.Key,
				"error":       delErr.Error(),
			})
		}
		return File{}, err
	}

	metrics.IncFileUploaded(f.MimeType)
	telemetry.Info("files.uploaded", map[string]any{
		"file_id":    f.ID,
		"record_id":  f.RecordID,
		"mime_type":  f.MimeType,
		"size_bytes": f.SizeBytes,
	})
	return f, nil
}

// Get returns a file visible to the caller. Files attached to a record are
// visible to everyone working on that record; unattached files only to
// their uploader.
func (s *Service) Get(ctx context.Context, userID, fileID string) (File, error) {
	if strings.TrimSpace(fileID) == "" {
		return File{}, ErrInvalidInput
	}
	f, err := s.Repo.GetByID(ctx, fileID)
	if err != nil {
		return File{}, err
	}
	if f.RecordID == "" && f.UserID != userID {
		return File{}, ErrNotFound
	}
	return f, nil
}

// ListRelated returns the files attached to a record, newest first.
func (s *Service) ListRelated(ctx context.Context, recordID string) ([]File, error) {
	recordID = strings.TrimSpace(recordID)
	if recordID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByRecord(ctx, recordID, relatedFilesLimit)
}

// Content reads the stored bytes of f, refusing anything larger than max
// when max is positive.
func (s *Service) Content(ctx context.Context, f File, max int64) ([]byte, error) {
	if max > 0 && f.SizeBytes > max {
		return nil, ErrTooLarge
	}
	rc, err := s.Store.Open(ctx, f.StorageKey)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if max > 0 {
		r = io.LimitReader(rc, max+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if max > 0 && int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return data, nil
}
