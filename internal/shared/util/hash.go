package util

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"
)

// HashOwnerKey returns a filesystem-safe identifier for an owner ID.
func HashOwnerKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashingReader passes reads through while computing a SHA-256 of the bytes
// and counting them.
type HashingReader struct {
	r io.Reader
	h hash.Hash
	n int64
}

// NewHashingReader wraps r.
func NewHashingReader(r io.Reader) *HashingReader {
	return &HashingReader{r: r, h: sha256.New()}
}

func (hr *HashingReader) Read(p []byte) (int, error) {
	n, err := hr.r.Read(p)
	if n > 0 {
		hr.h.Write(p[:n])
		hr.n += int64(n)
	}
	return n, err
}

// Sum returns the hex digest of everything read so far.
func (hr *HashingReader) Sum() string {
	return hex.EncodeToString(hr.h.Sum(nil))
}

// N returns the number of bytes read so far.
func (hr *HashingReader) N() int64 {
	return hr.n
}
