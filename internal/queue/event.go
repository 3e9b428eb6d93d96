// Package queue defines message payloads exchanged over the message broker.
package queue

// TransactionRecordedEvent is published after a transaction row is
// committed. It carries enough information for downstream consumers to keep
// an audit trail without querying the primary database. The amount is a
// decimal string so no precision is lost on the wire.
type TransactionRecordedEvent struct {
	TransactionID   uint64  `json:"transaction_id"`
	AccountID       uint64  `json:"account_id"`
	Amount          string  `json:"amount"`
	Merchant        string  `json:"merchant"`
	TransactionDate string  `json:"transaction_date"`
	TransactionType *string `json:"transaction_type,omitempty"`
	CycleID         *uint64 `json:"cycle_id,omitempty"`
	RecordedAt      string  `json:"recorded_at"`
}
