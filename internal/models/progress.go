package models

import "time"

// ProgressUpdate is one per-bottle production update inside a batch. The
// numeric fields tolerate non-numeric input, which coerces to zero rather
// than rejecting the update. TotalCompleted is the client's authoritative
// new cumulative total, not a delta.
type ProgressUpdate struct {
	DecoCode       string  `json:"deco_code" validate:"required"`
	UnitsProduced  FlexInt `json:"units_produced"`
	StockUsed      FlexInt `json:"stock_used"`
	TotalCompleted FlexInt `json:"total_completed"`
	Note           string  `json:"note"`
}

// ProgressBatch is an ordered batch of updates against one item. Later
// updates observe the in-memory mutations of earlier ones.
type ProgressBatch struct {
	Updates   []ProgressUpdate `json:"updates" validate:"required,min=1,dive"`
	UpdatedBy string           `json:"updated_by"`
}

// UpdateSummary is the per-update audit line returned to the caller.
type UpdateSummary struct {
	DecoCode          string `json:"deco_code"`
	Name              string `json:"name"`
	PreviousCompleted int    `json:"previous_completed"`
	NewCompleted      int    `json:"new_completed"`
	UnitsProduced     int    `json:"units_produced"`
	StockUsed         int    `json:"stock_used"`
	Remaining         int    `json:"remaining"`
	Status            string `json:"status"`
}

// ProgressResult is the successful outcome of applying a batch.
type ProgressResult struct {
	OperationID string          `json:"operation_id"`
	Order       Order           `json:"order"`
	Updates     []UpdateSummary `json:"updates"`
	Timestamp   time.Time       `json:"timestamp"`
}
