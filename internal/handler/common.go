package handler // handler translates HTTP verbs into persistence operations

import (
	"errors"  // errors provides sentinel values used by the helpers
	"strconv" // strconv converts string identifiers to numeric types
	"time"    // time is needed to parse timestamp parameters

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/transactsync/transactsync/internal/repository" // repository holds the data access layer
)

// Handler bundles the four entity repositories.  Handlers hold no other
// state; every request is served independently.
type Handler struct {
	AccountRepo     *repository.AccountRepo     // AccountRepo provides account persistence
	CycleRepo       *repository.CycleRepo       // CycleRepo provides cycle persistence
	CheckpointRepo  *repository.CheckpointRepo  // CheckpointRepo provides email checkpoint persistence
	TransactionRepo *repository.TransactionRepo // TransactionRepo provides transaction persistence
}

// NewHandler constructs a Handler and panics if any dependency is nil.
func NewHandler(accounts *repository.AccountRepo, cycles *repository.CycleRepo, checkpoints *repository.CheckpointRepo, transactions *repository.TransactionRepo) *Handler {
	if accounts == nil || cycles == nil || checkpoints == nil || transactions == nil {
		panic("nil repository passed to NewHandler")
	}
	return &Handler{
		AccountRepo:     accounts,
		CycleRepo:       cycles,
		CheckpointRepo:  checkpoints,
		TransactionRepo: transactions,
	}
}

// parseID reads the :id path parameter and converts it to uint64.
func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// timestampLayouts lists the accepted formats for timestamp fields, from most
// to least specific.  Callers send ISO timestamps with or without a zone
// offset; date-only values are taken as midnight.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimestamp parses an ISO-style timestamp string.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("invalid timestamp: " + s)
}

// parseDate parses a YYYY-MM-DD date used by the transaction list filters.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("invalid date: " + s)
	}
	return t, nil
}
