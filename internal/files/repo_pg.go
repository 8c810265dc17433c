package files

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const fileColumns = `id, user_id, record_id, file_name, mime_type, size_bytes, checksum, storage_provider, storage_key, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (File, error) {
	var f File
	var recordID sql.NullString
	var checksum sql.NullString
	if err := row.Scan(
		&f.ID,
		&f.UserID,
		&recordID,
		&f.FileName,
		&f.MimeType,
		&f.SizeBytes,
		&checksum,
		&f.StorageProvider,
		&f.StorageKey,
		&f.CreatedAt,
	); err != nil {
		return File{}, err
	}
	f.RecordID = recordID.String
	f.Checksum = checksum.String
	return f, nil
}

// Create inserts a new file.
func (r *PGRepo) Create(ctx context.Context, f File) error {
	const query = `
INSERT INTO files (
    id,
    user_id,
    record_id,
    file_name,
    mime_type,
    size_bytes,
    checksum,
    storage_provider,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	storageProvider := f.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		f.ID,
		f.UserID,
		nullString(f.RecordID),
		f.FileName,
		f.MimeType,
		f.SizeBytes,
		nullString(f.Checksum),
		storageProvider,
		f.StorageKey,
		f.CreatedAt,
	)
	return err
}

// GetByID fetches a file by ID.
func (r *PGRepo) GetByID(ctx context.Context, fileID string) (File, error) {
	query := `
SELECT ` + fileColumns + `
FROM files
WHERE id = $1 AND deleted_at IS NULL
LIMIT 1`
	f, err := scanFile(r.DB.QueryRowContext(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, err
	}
	return f, nil
}

// ListByRecord lists files attached to a record ordered newest-first.
func (r *PGRepo) ListByRecord(ctx context.Context, recordID string, limit int) ([]File, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	query := `
SELECT ` + fileColumns + `
FROM files
WHERE record_id = $1 AND deleted_at IS NULL
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, recordID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
