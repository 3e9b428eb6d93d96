// Package repository defines error values that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: ErrConflict signals
// a uniqueness violation (duplicate account_number or checkpoint folder),
// while ErrReferenced signals that a delete cannot proceed because
// transactions still point at the row.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update collides with an
// existing row on a unique key. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrReferenced is returned when a delete is blocked because dependent
// transactions exist. The chosen policy for accounts and cycles is
// reject-with-conflict rather than cascade or null-out, so handlers
// translate this into an HTTP 409 response as well.
var ErrReferenced = errors.New("row is referenced by transactions")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062) raised by a unique index.
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}

// isForeignKeyViolation reports whether err is a MySQL foreign-key error:
// 1452 for an insert/update pointing at a missing parent, 1451 for a
// delete blocked by existing children.
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "1451") || strings.Contains(s, "1452")
}
