// This file defines repository methods for billing-cycle CRUD and the
// cycle-lookup-by-date query that external ingestion callers use to bucket
// a transaction into its statement period.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/transactsync/transactsync/internal/model"
)

// ErrCycleNotFound is returned when a cycle cannot be found in the DB.
var ErrCycleNotFound = errors.New("cycle not found")

const cycleColumns = `cycle_id, cycle_start, cycle_end, cycle_description, comments, created_at, updated_at`

// CycleRepo encapsulates all database queries related to billing cycles.
type CycleRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCycleRepo constructs a CycleRepo with the provided DB handle.
func NewCycleRepo(db *sql.DB) *CycleRepo {
	return &CycleRepo{db: db}
}

func scanCycle(row interface{ Scan(...any) error }) (*model.Cycle, error) {
	var c model.Cycle
	err := row.Scan(&c.CycleID, &c.CycleStart, &c.CycleEnd, &c.CycleDescription,
		&c.Comments, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new cycle.  On success the CycleID field is populated and
// a follow-up SELECT fills in the DB-defaulted created_at/updated_at columns.
// The cycle_start <= cycle_end invariant is validated at the handler before
// this method is reached.
func (r *CycleRepo) Create(ctx context.Context, c *model.Cycle) error {
	const qInsert = `INSERT INTO cycles (cycle_start, cycle_end, cycle_description, comments)
		VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, c.CycleStart, c.CycleEnd, c.CycleDescription, c.Comments)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.CycleID = uint64(id)

	const qSelect = `SELECT ` + cycleColumns + ` FROM cycles WHERE cycle_id = ?`
	got, err := scanCycle(r.db.QueryRowContext(ctx, qSelect, c.CycleID))
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// GetByID fetches a cycle by its ID.  It returns ErrCycleNotFound if no row
// is found.
func (r *CycleRepo) GetByID(ctx context.Context, id uint64) (*model.Cycle, error) {
	const q = `SELECT ` + cycleColumns + ` FROM cycles WHERE cycle_id = ?`
	c, err := scanCycle(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCycleNotFound
		}
		return nil, err
	}
	return c, nil
}

// List returns all cycles ordered by id.
func (r *CycleRepo) List(ctx context.Context) ([]*model.Cycle, error) {
	const q = `SELECT ` + cycleColumns + ` FROM cycles ORDER BY cycle_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindIDForDate resolves the cycle whose [cycle_start, cycle_end] interval
// contains t, inclusive on both bounds.  When several cycles overlap the
// timestamp, the lowest cycle_id wins so repeated lookups are reproducible.
// A nil pointer is returned when no interval matches; the endpoint encodes
// that as {"cycle_id": null} rather than a 404.
func (r *CycleRepo) FindIDForDate(ctx context.Context, t time.Time) (*uint64, error) {
	const q = `SELECT cycle_id FROM cycles
		WHERE cycle_start <= ? AND cycle_end >= ?
		ORDER BY cycle_id LIMIT 1`
	var id uint64
	if err := r.db.QueryRowContext(ctx, q, t, t).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

// Update performs a full replace of the mutable cycle fields inside a
// transaction, returning ErrCycleNotFound when the id has no row.  On
// success c is overwritten with the stored record.
func (r *CycleRepo) Update(ctx context.Context, id uint64, c *model.Cycle) (err error) {
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
	if err = tx.QueryRowContext(ctx, `SELECT cycle_id FROM cycles WHERE cycle_id = ? FOR UPDATE`, id).Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCycleNotFound
		}
		return err
	}

	const qUpdate = `UPDATE cycles
		SET cycle_start = ?, cycle_end = ?, cycle_description = ?, comments = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE cycle_id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate, c.CycleStart, c.CycleEnd, c.CycleDescription, c.Comments, id); err != nil {
		return err
	}

	const qSelect = `SELECT ` + cycleColumns + ` FROM cycles WHERE cycle_id = ?`
	got, err := scanCycle(tx.QueryRowContext(ctx, qSelect, id))
	if err != nil {
		return err
	}
	*c = *got
	return nil
}

// Delete removes a cycle by id.  Deletion is rejected with ErrReferenced
// while transactions still carry this cycle_id; reassignment to null or
// cascading is deliberately not offered.
func (r *CycleRepo) Delete(ctx context.Context, id uint64) (err error) {
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
	if err = tx.QueryRowContext(ctx, `SELECT cycle_id FROM cycles WHERE cycle_id = ? FOR UPDATE`, id).Scan(&existing); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCycleNotFound
		}
		return err
	}

	var refs int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE cycle_id = ?`, id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		err = ErrReferenced
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM cycles WHERE cycle_id = ?`, id); err != nil {
		if isForeignKeyViolation(err) {
			err = ErrReferenced
		}
		return err
	}
	return nil
}
