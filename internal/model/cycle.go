package model

import "time"

// Cycle is a billing/statement period defined by a start and end
// timestamp, used to bucket transactions for reporting.  The interval
// is inclusive on both bounds.  Overlapping cycles are a data-quality
// condition; lookups resolve ties deterministically by lowest cycle_id.
//
// Fields:
//  CycleID          – primary key identifier.
//  CycleStart       – first instant covered by the cycle.
//  CycleEnd         – last instant covered by the cycle.
//  CycleDescription – optional human-friendly label.
//  Comments         – free-form notes (nullable).
//  CreatedAt        – timestamp when the row was created.
//  UpdatedAt        – timestamp of last update.
type Cycle struct {
	CycleID          uint64    `json:"cycle_id"`          // cycles.cycle_id
	CycleStart       time.Time `json:"cycle_start"`       // cycles.cycle_start
	CycleEnd         time.Time `json:"cycle_end"`         // cycles.cycle_end
	CycleDescription *string   `json:"cycle_description"` // cycles.cycle_description (nullable)
	Comments         *string   `json:"comments"`          // cycles.comments (nullable)
	CreatedAt        time.Time `json:"created_at"`        // cycles.created_at
	UpdatedAt        time.Time `json:"updated_at"`        // cycles.updated_at
}
