package handler // handler package contains the transaction endpoints

import (
	"errors"   // errors supports sentinel matching via errors.Is
	"net/http" // http provides status code constants
	"strconv"  // strconv parses the cycle_id query filter
	"strings"  // strings offers trimming utilities
	"time"     // time formats the audit event timestamp

	"github.com/labstack/echo/v4"    // echo is the web framework used for handlers
	"github.com/shopspring/decimal"  // decimal keeps currency amounts exact

	"github.com/transactsync/transactsync/internal/model"      // model holds the persisted entity structs
	"github.com/transactsync/transactsync/internal/queue"      // queue defines the audit event payload
	"github.com/transactsync/transactsync/internal/repository" // repository holds the data access layer
	"github.com/transactsync/transactsync/internal/service"    // service publishes audit events to the broker
)

// transactionRequest is the JSON body accepted by POST and PUT
// /transactions.  Timestamps arrive as strings; the amount binds through
// shopspring/decimal so currency values are never rounded through a float.
type transactionRequest struct {
	TransactionDate   string           `json:"transaction_date"`   // when the movement happened, required
	TransactionAmount *decimal.Decimal `json:"transaction_amount"` // signed amount, required
	Merchant          string           `json:"merchant"`           // counterparty name, required
	AccountID         uint64           `json:"account_id"`         // owning account, required
	FromAddress       string           `json:"from_address"`       // source email sender, required
	ToAddress         string           `json:"to_address"`         // source email recipient, required
	EmailUID          *int64           `json:"email_uid"`          // IMAP UID of the source email, required
	EmailDate         string           `json:"email_date"`         // date header of the source email, required
	TransactionType   *string          `json:"transaction_type"`   // optional debit/credit tag
	CycleID           *uint64          `json:"cycle_id"`           // optional owning cycle; never auto-assigned
}

// toModel parses and validates the request fields.  Reference existence
// (account_id, cycle_id) is checked later inside the repository transaction
// so validation and write stay atomic.
func (r *transactionRequest) toModel() (*model.Transaction, error) {
	r.Merchant = strings.TrimSpace(r.Merchant)
	switch {
	case strings.TrimSpace(r.TransactionDate) == "":
		return nil, errors.New("transaction_date is required")
	case r.TransactionAmount == nil:
		return nil, errors.New("transaction_amount is required")
	case r.Merchant == "":
		return nil, errors.New("merchant is required")
	case r.AccountID == 0:
		return nil, errors.New("account_id is required")
	case strings.TrimSpace(r.FromAddress) == "":
		return nil, errors.New("from_address is required")
	case strings.TrimSpace(r.ToAddress) == "":
		return nil, errors.New("to_address is required")
	case r.EmailUID == nil:
		return nil, errors.New("email_uid is required")
	case strings.TrimSpace(r.EmailDate) == "":
		return nil, errors.New("email_date is required")
	}
	txnDate, err := parseTimestamp(r.TransactionDate)
	if err != nil {
		return nil, errors.New("transaction_date must be an ISO timestamp")
	}
	emailDate, err := parseTimestamp(r.EmailDate)
	if err != nil {
		return nil, errors.New("email_date must be an ISO timestamp")
	}
	return &model.Transaction{
		TransactionDate:   txnDate,
		TransactionAmount: *r.TransactionAmount,
		Merchant:          r.Merchant,
		AccountID:         r.AccountID,
		FromAddress:       r.FromAddress,
		ToAddress:         r.ToAddress,
		EmailUID:          *r.EmailUID,
		EmailDate:         emailDate,
		TransactionType:   r.TransactionType,
		CycleID:           r.CycleID,
	}, nil
}

// referenceError maps the repository's referential sentinels onto a 400
// validation response; a dangling account_id or cycle_id is a caller error,
// not a missing resource on this endpoint.
func referenceError(c echo.Context, err error) (bool, error) {
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": "account_id does not reference an existing account"})
	case errors.Is(err, repository.ErrCycleNotFound):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": "cycle_id does not reference an existing cycle"})
	}
	return false, nil
}

// CreateTransaction handles POST /transactions.  The repository validates
// the account and cycle references inside the same database transaction as
// the insert, so a failed validation leaves no partial write.  On success
// an audit event goes to the broker; publish failures never fail the
// request.
func (h *Handler) CreateTransaction(c echo.Context) error {
	var body transactionRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	txn, err := body.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.TransactionRepo.Create(c.Request().Context(), txn); err != nil {
		if handled, resp := referenceError(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create transaction"})
	}

	// Best-effort audit trail; the write already committed.
	_ = service.PublishTransactionRecorded(c.Request().Context(), queue.TransactionRecordedEvent{
		TransactionID:   txn.TransactionID,
		AccountID:       txn.AccountID,
		Amount:          txn.TransactionAmount.String(),
		Merchant:        txn.Merchant,
		TransactionDate: txn.TransactionDate.Format(time.RFC3339),
		TransactionType: txn.TransactionType,
		CycleID:         txn.CycleID,
		RecordedAt:      time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, txn)
}

// ListTransactions handles GET /transactions with optional start_date,
// end_date (YYYY-MM-DD; the end date's whole day is included) and cycle_id
// filters.
func (h *Handler) ListTransactions(c echo.Context) error {
	var filter repository.TransactionFilter
	if raw := strings.TrimSpace(c.QueryParam("start_date")); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_date must be YYYY-MM-DD"})
		}
		filter.StartDate = &t
	}
	if raw := strings.TrimSpace(c.QueryParam("end_date")); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_date must be YYYY-MM-DD"})
		}
		filter.EndDate = &t
	}
	if raw := strings.TrimSpace(c.QueryParam("cycle_id")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "cycle_id must be an integer"})
		}
		filter.CycleID = &id
	}

	items, err := h.TransactionRepo.List(c.Request().Context(), filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if items == nil {
		items = []*model.Transaction{} // encode an empty list, not null
	}
	return c.JSON(http.StatusOK, items)
}

// GetTransaction handles GET /transactions/:id.
func (h *Handler) GetTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	txn, err := h.TransactionRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, txn)
}

// UpdateTransaction handles PUT /transactions/:id with the same reference
// validation as create.
func (h *Handler) UpdateTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body transactionRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	txn, err := body.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if err := h.TransactionRepo.Update(c.Request().Context(), id, txn); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		if handled, resp := referenceError(c, err); handled {
			return resp
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, txn)
}

// DeleteTransaction handles DELETE /transactions/:id.
func (h *Handler) DeleteTransaction(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.TransactionRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "transaction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "message": "Transaction deleted"})
}
