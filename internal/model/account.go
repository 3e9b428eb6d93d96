package model

import "time"

// Account represents a financial account (bank or card) that
// transactions are attributed to.  Rows are created by the API and
// referenced by transactions via account_id.  The account_number is
// unique across active and inactive rows; account_id never changes
// once assigned.
//
// Fields:
//  AccountID            – primary key identifier.
//  AccountNumber        – unique external account number.
//  FinancialInstitution – bank or card issuer name.
//  AccountName          – human-friendly account label.
//  AccountOwner         – person the account belongs to (nullable).
//  Active               – application-level flag, not a deletion mechanism.
//  Comments             – free-form notes (nullable).
//  AccountType          – checking, savings, credit, ... (nullable).
//  LoadTime             – timestamp when the row was created.
//  LoadBy               – identity of the writer, if recorded (nullable).
type Account struct {
	AccountID            uint64    `json:"account_id"`            // accounts.account_id
	AccountNumber        string    `json:"account_number"`        // accounts.account_number
	FinancialInstitution string    `json:"financial_institution"` // accounts.financial_institution
	AccountName          string    `json:"account_name"`          // accounts.account_name
	AccountOwner         *string   `json:"account_owner"`         // accounts.account_owner (nullable)
	Active               bool      `json:"active"`                // accounts.active
	Comments             *string   `json:"comments"`              // accounts.comments (nullable)
	AccountType          *string   `json:"account_type"`          // accounts.account_type (nullable)
	LoadTime             time.Time `json:"load_time"`             // accounts.load_time
	LoadBy               *string   `json:"load_by"`               // accounts.load_by (nullable)
}
