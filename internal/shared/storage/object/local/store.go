package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"analysis-backend/internal/shared/storage/object"
	"analysis-backend/internal/shared/util"
)

// Store keeps objects under a base directory. It backs dev mode and tests.
type Store struct {
	baseDir string
}

// New roots a store at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes r to a temp file and renames it into place, so a failed or
// canceled upload never leaves a partial object behind.
func (s *Store) Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (object.Saved, error) {
	key, err := object.NewKey(ownerID, fileName)
	if err != nil {
		return object.Saved{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.Saved{}, err
	}

	fullPath, err := s.resolve(key)
	if err != nil {
		return object.Saved{}, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return object.Saved{}, fmt.Errorf("mkdir: %w", err)
	}

	mimeType, body, err := object.Sniff(r)
	if err != nil {
		return object.Saved{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return object.Saved{}, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	hr := util.NewHashingReader(body)
	_, copyErr := io.Copy(tmp, hr)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr, ctx.Err()); err != nil {
		return object.Saved{}, fmt.Errorf("write body: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return object.Saved{}, fmt.Errorf("commit object: %w", err)
	}

	return object.Saved{
		Key:       key,
		SizeBytes: hr.N(),
		MimeType:  mimeType,
		Checksum:  hr.Sum(),
	}, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, object.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete removes a stored object.
func (s *Store) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	err = os.Remove(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return object.ErrNotFound
	}
	return err
}

func (s *Store) resolve(storageKey string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(storageKey))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", storageKey)
	}
	return filepath.Join(s.baseDir, clean), nil
}

var _ object.ObjectStore = (*Store)(nil)
