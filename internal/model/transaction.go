package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single financial movement derived from an email
// alert.  Every transaction belongs to exactly one account; the cycle
// link is optional and is never assigned automatically — callers that
// want auto-assignment resolve the cycle via /cycles/for-date first.
//
// TransactionAmount uses a fixed-precision decimal rather than a
// float so currency values never accumulate rounding drift.
//
// Fields:
//  TransactionID     – primary key identifier.
//  TransactionDate   – when the movement happened.
//  TransactionAmount – signed monetary amount.
//  Merchant          – counterparty name parsed from the alert.
//  AccountID         – owning account (must exist).
//  FromAddress       – sender address of the source email.
//  ToAddress         – recipient address of the source email.
//  EmailUID          – IMAP UID of the source email.
//  EmailDate         – date header of the source email.
//  TransactionType   – debit/credit/transfer, ... (nullable).
//  CycleID           – owning billing cycle (nullable, must exist when set).
//  LoadTime          – timestamp when the row was created.
type Transaction struct {
	TransactionID     uint64          `json:"transaction_id"`     // transactions.transaction_id
	TransactionDate   time.Time       `json:"transaction_date"`   // transactions.transaction_date
	TransactionAmount decimal.Decimal `json:"transaction_amount"` // transactions.transaction_amount
	Merchant          string          `json:"merchant"`           // transactions.merchant
	AccountID         uint64          `json:"account_id"`         // transactions.account_id
	FromAddress       string          `json:"from_address"`       // transactions.from_address
	ToAddress         string          `json:"to_address"`         // transactions.to_address
	EmailUID          int64           `json:"email_uid"`          // transactions.email_uid
	EmailDate         time.Time       `json:"email_date"`         // transactions.email_date
	TransactionType   *string         `json:"transaction_type"`   // transactions.transaction_type (nullable)
	CycleID           *uint64         `json:"cycle_id"`           // transactions.cycle_id (nullable)
	LoadTime          time.Time       `json:"load_time"`          // transactions.load_time
}
