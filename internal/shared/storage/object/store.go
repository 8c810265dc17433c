// Package object stores uploaded files. Keys are "<owner hash>/<random>_<name>"
// so owners never share a directory and names never collide.
package object

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"analysis-backend/internal/shared/util"
)

// SniffBytes is how much of an upload is buffered for mime detection.
const SniffBytes = 3072

// ErrNotFound is returned by Open and Delete for unknown keys.
var ErrNotFound = errors.New("object not found")

// Saved describes a stored object.
type Saved struct {
	Key       string
	SizeBytes int64
	MimeType  string
	Checksum  string
}

// ObjectStore saves and retrieves uploaded files.
type ObjectStore interface {
	Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (Saved, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}

// NewKey builds a fresh storage key for an owner's file.
func NewKey(ownerID, fileName string) (string, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return path.Join(util.HashOwnerKey(ownerID), random+"_"+name), nil
}

// Sniff detects the mime type from the head of r and returns a reader that
// still yields the full content.
func Sniff(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, SniffBytes)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	head = head[:n]
	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), r), nil
}
