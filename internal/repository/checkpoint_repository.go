// This file defines repository methods for email-ingestion checkpoints.
// A checkpoint stores the last-seen message UID per folder so the external
// ingestion process can resume where it left off.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/transactsync/transactsync/internal/model"
)

// ErrCheckpointNotFound is returned when no checkpoint exists for a folder.
var ErrCheckpointNotFound = errors.New("email checkpoint not found")

// CheckpointRepo encapsulates all database queries related to email
// checkpoints.
type CheckpointRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewCheckpointRepo constructs a CheckpointRepo with the provided DB handle.
func NewCheckpointRepo(db *sql.DB) *CheckpointRepo {
	return &CheckpointRepo{db: db}
}

func scanCheckpoint(row interface{ Scan(...any) error }) (*model.EmailCheckpoint, error) {
	var (
		cp  model.EmailCheckpoint
		id  uint64
		uid int64
	)
	if err := row.Scan(&id, &cp.Folder, &uid); err != nil {
		return nil, err
	}
	cp.ID = &id
	cp.LastSeenUID = &uid
	return &cp, nil
}

// GetByFolder fetches the checkpoint for a folder.  It returns
// ErrCheckpointNotFound when the folder has no row; the handler turns that
// into the record-shaped null response rather than a 404.
func (r *CheckpointRepo) GetByFolder(ctx context.Context, folder string) (*model.EmailCheckpoint, error) {
	const q = `SELECT id, folder, last_seen_uid FROM email_checkpoints WHERE folder = ?`
	cp, err := scanCheckpoint(r.db.QueryRowContext(ctx, q, folder))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCheckpointNotFound
		}
		return nil, err
	}
	return cp, nil
}

// List returns all checkpoints ordered by id.
func (r *CheckpointRepo) List(ctx context.Context) ([]*model.EmailCheckpoint, error) {
	const q = `SELECT id, folder, last_seen_uid FROM email_checkpoints ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.EmailCheckpoint
	for rows.Next() {
		cp, err := scanCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a checkpoint for a folder that must not already have one.
// A duplicate folder yields ErrConflict.  POST intentionally differs from
// PUT here: only PUT upserts.
func (r *CheckpointRepo) Create(ctx context.Context, folder string, lastSeenUID int64) (*model.EmailCheckpoint, error) {
	const qInsert = `INSERT INTO email_checkpoints (folder, last_seen_uid) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, folder, lastSeenUID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	uid := uint64(id)
	return &model.EmailCheckpoint{ID: &uid, Folder: folder, LastSeenUID: &lastSeenUID}, nil
}

// Upsert creates the row if absent, otherwise replaces last_seen_uid.  It is
// a single atomic INSERT ... ON DUPLICATE KEY UPDATE, never read-then-write,
// so two concurrent writers to the same folder cannot lose an update.  The
// stored record is read back and returned.
func (r *CheckpointRepo) Upsert(ctx context.Context, folder string, lastSeenUID int64) (*model.EmailCheckpoint, error) {
	const qUpsert = `INSERT INTO email_checkpoints (folder, last_seen_uid) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE last_seen_uid = VALUES(last_seen_uid)`
	if _, err := r.db.ExecContext(ctx, qUpsert, folder, lastSeenUID); err != nil {
		return nil, err
	}
	return r.GetByFolder(ctx, folder)
}

// DeleteByFolder removes the checkpoint for a folder.  It returns
// ErrCheckpointNotFound when no row was deleted.
func (r *CheckpointRepo) DeleteByFolder(ctx context.Context, folder string) error {
	const q = `DELETE FROM email_checkpoints WHERE folder = ?`
	res, err := r.db.ExecContext(ctx, q, folder)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCheckpointNotFound
	}
	return nil
}
