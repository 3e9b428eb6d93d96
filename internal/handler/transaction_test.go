package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var transactionCols = []string{"transaction_id", "transaction_date", "transaction_amount", "merchant",
	"account_id", "from_address", "to_address", "email_uid", "email_date", "transaction_type", "cycle_id", "load_time"}

const createTransactionBody = `{
	"transaction_date": "2026-01-15T12:00:00",
	"transaction_amount": 42.50,
	"merchant": "Coffee Shop",
	"account_id": 5,
	"from_address": "alerts@examplebank.com",
	"to_address": "alice@example.com",
	"email_uid": 1001,
	"email_date": "2026-01-15T12:01:00"
}`

func TestCreateTransactionMissingAccountRejectedWithoutWrite(t *testing.T) {
	h, mock := newTestHandler(t)

	// The existence check runs inside the same transaction as the insert;
	// when it fails the transaction rolls back and nothing is written.
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM accounts WHERE account_id`).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	c, rec := newJSONContext(t, http.MethodPost, "/transactions", createTransactionBody)
	if err := h.CreateTransaction(c); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "account_id does not reference an existing account" {
		t.Errorf("error = %v", body["error"])
	}
	expectMet(t, mock) // proves no INSERT was attempted
}

func TestCreateTransactionMissingCycleRejected(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM accounts WHERE account_id`).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(`SELECT 1 FROM cycles WHERE cycle_id`).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	body := `{
		"transaction_date": "2026-01-15T12:00:00",
		"transaction_amount": "42.50",
		"merchant": "Coffee Shop",
		"account_id": 5,
		"from_address": "alerts@examplebank.com",
		"to_address": "alice@example.com",
		"email_uid": 1001,
		"email_date": "2026-01-15T12:01:00",
		"cycle_id": 99
	}`
	c, rec := newJSONContext(t, http.MethodPost, "/transactions", body)
	if err := h.CreateTransaction(c); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	expectMet(t, mock)
}

func TestCreateTransactionSucceeds(t *testing.T) {
	h, mock := newTestHandler(t)

	txnDate := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	emailDate := time.Date(2026, 1, 15, 12, 1, 0, 0, time.UTC)
	loadTime := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1 FROM accounts WHERE account_id`).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO transactions`).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(`FROM transactions WHERE transaction_id`).
		WillReturnRows(sqlmock.NewRows(transactionCols).
			AddRow(11, txnDate, "42.50", "Coffee Shop", 5,
				"alerts@examplebank.com", "alice@example.com", 1001, emailDate, nil, nil, loadTime))
	mock.ExpectCommit()

	c, rec := newJSONContext(t, http.MethodPost, "/transactions", createTransactionBody)
	if err := h.CreateTransaction(c); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["transaction_id"] != float64(11) {
		t.Errorf("transaction_id = %v, want 11", body["transaction_id"])
	}
	if body["transaction_amount"] != "42.50" {
		t.Errorf("transaction_amount = %v, want the exact decimal string 42.50", body["transaction_amount"])
	}
	if v, present := body["cycle_id"]; !present || v != nil {
		t.Errorf("cycle_id = %v, want explicit null (no auto-assignment)", v)
	}
	expectMet(t, mock)
}

func TestCreateTransactionMissingAmountRejected(t *testing.T) {
	h, mock := newTestHandler(t)

	c, rec := newJSONContext(t, http.MethodPost, "/transactions",
		`{"transaction_date":"2026-01-15T12:00:00","merchant":"X","account_id":5,
		  "from_address":"a@b.c","to_address":"d@e.f","email_uid":1,"email_date":"2026-01-15T12:01:00"}`)
	if err := h.CreateTransaction(c); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	expectMet(t, mock)
}

func TestListTransactionsAppliesFilters(t *testing.T) {
	h, mock := newTestHandler(t)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	// end_date is extended by one day so the whole end day is included
	endPlusDay := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`transaction_date >= \? AND transaction_date <= \? AND cycle_id = \?`).
		WithArgs(start, endPlusDay, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(transactionCols))

	c, rec := newJSONContext(t, http.MethodGet,
		"/transactions?start_date=2026-01-01&end_date=2026-01-31&cycle_id=3", "")
	if err := h.ListTransactions(c); err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty JSON array", got)
	}
	expectMet(t, mock)
}

func TestListTransactionsBadDateRejected(t *testing.T) {
	h, mock := newTestHandler(t)

	c, rec := newJSONContext(t, http.MethodGet, "/transactions?start_date=15-01-2026", "")
	if err := h.ListTransactions(c); err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	expectMet(t, mock)
}

func TestDeleteTransactionNotFound(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectExec(`DELETE FROM transactions WHERE transaction_id`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := newJSONContext(t, http.MethodDelete, "/transactions/99", "")
	c.SetPath("/transactions/:id")
	c.SetParamNames("id")
	c.SetParamValues("99")
	if err := h.DeleteTransaction(c); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	expectMet(t, mock)
}
