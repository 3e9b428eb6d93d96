// Package repository contains data access logic separated from HTTP handlers.
// This file defines repository methods for account CRUD and the
// by-number lookup. An Account is the financial account (bank/card) that
// transactions are attributed to.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"       // errors is used to define custom error values

	"github.com/transactsync/transactsync/internal/model" // model holds the persisted entity structs
)

// ErrAccountNotFound is returned when an account cannot be found in the DB.
var ErrAccountNotFound = errors.New("account not found")

const accountColumns = `account_id, account_number, financial_institution, account_name,
	account_owner, active, comments, account_type, load_time, load_by`

// AccountRepo encapsulates all database queries related to accounts.  It
// depends on a sql.DB connection which should be configured elsewhere.
type AccountRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewAccountRepo constructs an AccountRepo with the provided DB handle.  This
// function allows dependency injection of the database in tests and at
// startup.  There is no initialization logic beyond assigning the field.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// scanAccount reads one row of accountColumns into a model.Account.
func scanAccount(row interface{ Scan(...any) error }) (*model.Account, error) {
	var a model.Account
	err := row.Scan(&a.AccountID, &a.AccountNumber, &a.FinancialInstitution, &a.AccountName,
		&a.AccountOwner, &a.Active, &a.Comments, &a.AccountType, &a.LoadTime, &a.LoadBy)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new account.  On success the AccountID field is populated
// with the auto-generated value and a follow-up SELECT fills in the
// DB-defaulted load_time so callers receive a fully populated record.
// A duplicate account_number yields ErrConflict; the uniqueness constraint
// spans active and inactive rows alike.
func (r *AccountRepo) Create(ctx context.Context, a *model.Account) error {
	const qInsert = `INSERT INTO accounts
		(account_number, financial_institution, account_name, account_owner, active, comments, account_type, load_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		a.AccountNumber, a.FinancialInstitution, a.AccountName, a.AccountOwner,
		a.Active, a.Comments, a.AccountType, a.LoadBy)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err // propagate DB errors to the caller
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.AccountID = uint64(id)

	// Follow-up SELECT to populate default columns (load_time).
	const qSelect = `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ?`
	got, err := scanAccount(r.db.QueryRowContext(ctx, qSelect, a.AccountID))
	if err != nil {
		return err
	}
	*a = *got
	return nil
}

// GetByID fetches an account by its ID.  It returns ErrAccountNotFound if no
// row is found.
func (r *AccountRepo) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ?`
	a, err := scanAccount(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

// GetIDByNumber resolves account_id from an account_number.  It returns a
// nil pointer (not an error) when no account carries that number, because
// the by-number endpoint encodes absence as {"account_id": null} rather
// than a 404.
func (r *AccountRepo) GetIDByNumber(ctx context.Context, number string) (*uint64, error) {
	const q = `SELECT account_id FROM accounts WHERE account_number = ?`
	var id uint64
	if err := r.db.QueryRowContext(ctx, q, number).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

// List returns all accounts ordered by id.
func (r *AccountRepo) List(ctx context.Context) ([]*model.Account, error) {
	const q = `SELECT ` + accountColumns + ` FROM accounts ORDER BY account_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update performs a full replace of the mutable account fields.  The target
// row is locked inside a transaction so the existence check and the write
// are atomic.  ErrAccountNotFound is returned when the id has no row and
// ErrConflict when the new account_number collides with a different account.
// On success a is overwritten with the stored record.
func (r *AccountRepo) Update(ctx context.Context, id uint64, a *model.Account) (err error) {
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
	if err = tx.QueryRowContext(ctx, `SELECT account_id FROM accounts WHERE account_id = ? FOR UPDATE`, id).Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrAccountNotFound
		}
		return err
	}

	const qUpdate = `UPDATE accounts
		SET account_number = ?, financial_institution = ?, account_name = ?,
		    account_owner = ?, active = ?, comments = ?, account_type = ?
		WHERE account_id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate,
		a.AccountNumber, a.FinancialInstitution, a.AccountName,
		a.AccountOwner, a.Active, a.Comments, a.AccountType, id); err != nil {
		if isDuplicateKey(err) {
			err = ErrConflict
		}
		return err
	}

	const qSelect = `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ?`
	got, err := scanAccount(tx.QueryRowContext(ctx, qSelect, id))
	if err != nil {
		return err
	}
	*a = *got
	return nil
}

// Delete removes an account by id.  Deletion is rejected with ErrReferenced
// while transactions still point at the account; the FK constraint backs
// this check at the schema level.  The existence check and the delete run
// in one transaction so a concurrent insert cannot slip between them.
func (r *AccountRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if err = tx.QueryRowContext(ctx, `SELECT account_id FROM accounts WHERE account_id = ? FOR UPDATE`, id).Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrAccountNotFound
		}
		return err
	}

	var refs int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		err = ErrReferenced
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM accounts WHERE account_id = ?`, id); err != nil {
		if isForeignKeyViolation(err) {
			err = ErrReferenced
		}
		return err
	}
	return nil
}
