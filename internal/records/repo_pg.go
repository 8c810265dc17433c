package records

import (
	"context"
	"database/sql"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CreateBatch inserts all records in one transaction.
func (r *PGRepo) CreateBatch(ctx context.Context, recs []EnergyUse) error {
	if len(recs) == 0 {
		return nil
	}
	const query = `
INSERT INTO energy_use_records (
    id,
    user_id,
    record_id,
    row_index,
    account_number,
    due_date,
    consumption_amount,
    amount_due,
    source,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range recs {
		var source any
		if len(rec.Source) > 0 {
			source = string(rec.Source)
		}
		var accountNumber sql.NullString
		if rec.AccountNumber != "" {
			accountNumber = sql.NullString{String: rec.AccountNumber, Valid: true}
		}
		if _, err := tx.ExecContext(ctx, query,
			rec.ID,
			rec.UserID,
			rec.RecordID,
			rec.RowIndex,
			accountNumber,
			rec.DueDate,
			rec.ConsumptionAmount,
			rec.AmountDue,
			source,
			rec.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert energy use row %d: %w", rec.RowIndex, err)
		}
	}
	return tx.Commit()
}

// ListByRecord returns records of a context record, newest batch first.
func (r *PGRepo) ListByRecord(ctx context.Context, recordID string) ([]EnergyUse, error) {
	const query = `
SELECT id, user_id, record_id, row_index, account_number, due_date, consumption_amount, amount_due, source, created_at
FROM energy_use_records
WHERE record_id = $1
ORDER BY created_at DESC, row_index ASC`

	rows, err := r.DB.QueryContext(ctx, query, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EnergyUse
	for rows.Next() {
		var rec EnergyUse
		var accountNumber sql.NullString
		var dueDate sql.NullTime
		var consumption sql.NullFloat64
		var amountDue sql.NullFloat64
		var source sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.RecordID,
			&rec.RowIndex,
			&accountNumber,
			&dueDate,
			&consumption,
			&amountDue,
			&source,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.AccountNumber = accountNumber.String
		if dueDate.Valid {
			t := dueDate.Time
			rec.DueDate = &t
		}
		if consumption.Valid {
			f := consumption.Float64
			rec.ConsumptionAmount = &f
		}
		if amountDue.Valid {
			f := amountDue.Float64
			rec.AmountDue = &f
		}
		if source.Valid {
			rec.Source = []byte(source.String)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
