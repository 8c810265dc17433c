package analyses

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, user_id, file_id, status, provider, model, result, error_code, error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var model sql.NullString
	var result sql.NullString
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FileID,
		&a.Status,
		&a.Provider,
		&model,
		&result,
		&errorCode,
		&errorMessage,
		&a.CreatedAt,
		&a.UpdatedAt,
		&completedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	a.Model = model.String
	a.Result = result.String
	a.ErrorCode = errorCode.String
	a.ErrorMessage = errorMessage.String
	if completedAt.Valid {
		t := completedAt.Time
		a.CompletedAt = &t
	}
	return a, nil
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, user_id, file_id, status, provider, model, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.FileID,
		analysis.Status,
		analysis.Provider,
		nullString(analysis.Model),
		analysis.CreatedAt,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1 LIMIT 1`
	return scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
}

// Finish writes the terminal status, result and error fields.
func (r *PGRepo) Finish(ctx context.Context, analysis Analysis) error {
	const query = `
UPDATE analyses
SET status = $2,
    result = $3,
    error_code = $4,
    error_message = $5,
    updated_at = $6,
    completed_at = $7
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.Status,
		nullString(analysis.Result),
		nullString(analysis.ErrorCode),
		nullString(analysis.ErrorMessage),
		analysis.UpdatedAt,
		analysis.CompletedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// LatestForFile returns the most recently created analysis of a file.
func (r *PGRepo) LatestForFile(ctx context.Context, fileID string) (Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE file_id = $1 ORDER BY created_at DESC LIMIT 1`
	return scanAnalysis(r.DB.QueryRowContext(ctx, query, fileID))
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
