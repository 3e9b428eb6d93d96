// This file defines repository methods for transaction CRUD. Creates and
// updates run inside a single database transaction so the account/cycle
// existence checks and the write are atomic: a referenced account cannot be
// deleted between validation and insert, and a failed validation leaves no
// partial write behind.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/transactsync/transactsync/internal/model"
)

// ErrTransactionNotFound is returned when a transaction cannot be found in
// the DB.
var ErrTransactionNotFound = errors.New("transaction not found")

const transactionColumns = `transaction_id, transaction_date, transaction_amount, merchant,
	account_id, from_address, to_address, email_uid, email_date, transaction_type, cycle_id, load_time`

// TransactionFilter narrows List results.  StartDate/EndDate cover whole
// days: EndDate is extended by one day server-side so a YYYY-MM-DD end date
// includes transactions from that day.
type TransactionFilter struct {
	StartDate *time.Time // include transactions on or after this instant
	EndDate   *time.Time // include transactions up to and including this day
	CycleID   *uint64    // restrict to one billing cycle
}

// TransactionRepo encapsulates all database queries related to transactions.
type TransactionRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewTransactionRepo constructs a TransactionRepo with the provided DB handle.
func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func scanTransaction(row interface{ Scan(...any) error }) (*model.Transaction, error) {
	var t model.Transaction
	err := row.Scan(&t.TransactionID, &t.TransactionDate, &t.TransactionAmount, &t.Merchant,
		&t.AccountID, &t.FromAddress, &t.ToAddress, &t.EmailUID, &t.EmailDate,
		&t.TransactionType, &t.CycleID, &t.LoadTime)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// checkReferences verifies inside tx that the account exists and, when a
// cycle_id is supplied, that the cycle exists.  ErrAccountNotFound or
// ErrCycleNotFound signal a referential-integrity failure to the handler.
func checkReferences(ctx context.Context, tx *sql.Tx, accountID uint64, cycleID *uint64) error {
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM accounts WHERE account_id = ?`, accountID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		return err
	}
	if cycleID != nil {
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM cycles WHERE cycle_id = ?`, *cycleID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCycleNotFound
			}
			return err
		}
	}
	return nil
}

// Create validates references and inserts the transaction atomically.  On
// success t is overwritten with the stored record including the generated id
// and load_time.  No automatic cycle assignment happens here: a nil CycleID
// stays null.
func (r *TransactionRepo) Create(ctx context.Context, t *model.Transaction) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	if err = checkReferences(ctx, tx, t.AccountID, t.CycleID); err != nil {
		return err
	}

	const qInsert = `INSERT INTO transactions
		(transaction_date, transaction_amount, merchant, account_id, from_address,
		 to_address, email_uid, email_date, transaction_type, cycle_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		t.TransactionDate, t.TransactionAmount, t.Merchant, t.AccountID, t.FromAddress,
		t.ToAddress, t.EmailUID, t.EmailDate, t.TransactionType, t.CycleID)
	if err != nil {
		if isForeignKeyViolation(err) {
			err = ErrAccountNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	const qSelect = `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = ?`
	got, err := scanTransaction(tx.QueryRowContext(ctx, qSelect, uint64(id)))
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// GetByID fetches a transaction by its ID.  It returns
// ErrTransactionNotFound if no row is found.
func (r *TransactionRepo) GetByID(ctx context.Context, id uint64) (*model.Transaction, error) {
	const q = `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = ?`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns transactions matching the filter, ordered by id.  With a
// zero-value filter every transaction is returned.
func (r *TransactionRepo) List(ctx context.Context, f TransactionFilter) ([]*model.Transaction, error) {
	q := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []any
	if f.StartDate != nil {
		q += ` AND transaction_date >= ?`
		args = append(args, *f.StartDate)
	}
	if f.EndDate != nil {
		// extend by one day so an end date of 2026-01-31 includes that whole day
		q += ` AND transaction_date <= ?`
		args = append(args, f.EndDate.AddDate(0, 0, 1))
	}
	if f.CycleID != nil {
		q += ` AND cycle_id = ?`
		args = append(args, *f.CycleID)
	}
	q += ` ORDER BY transaction_id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update performs a full replace of the mutable transaction fields with the
// same reference validation as Create, all inside one transaction.  On
// success t is overwritten with the stored record.
func (r *TransactionRepo) Update(ctx context.Context, id uint64, t *model.Transaction) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()

	var existing uint64
	if err = tx.QueryRowContext(ctx, `SELECT transaction_id FROM transactions WHERE transaction_id = ? FOR UPDATE`, id).Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrTransactionNotFound
		}
		return err
	}

	if err = checkReferences(ctx, tx, t.AccountID, t.CycleID); err != nil {
		return err
	}

	const qUpdate = `UPDATE transactions
		SET transaction_date = ?, transaction_amount = ?, merchant = ?, account_id = ?,
		    from_address = ?, to_address = ?, email_uid = ?, email_date = ?,
		    transaction_type = ?, cycle_id = ?
		WHERE transaction_id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate,
		t.TransactionDate, t.TransactionAmount, t.Merchant, t.AccountID, t.FromAddress,
		t.ToAddress, t.EmailUID, t.EmailDate, t.TransactionType, t.CycleID, id); err != nil {
		return err
	}

	const qSelect = `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = ?`
	got, err := scanTransaction(tx.QueryRowContext(ctx, qSelect, id))
	if err != nil {
		return err
	}
	*t = *got
	return nil
}

// Delete removes a transaction by id.  It returns ErrTransactionNotFound
// when no row was deleted.
func (r *TransactionRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM transactions WHERE transaction_id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTransactionNotFound
	}
	return nil
}
