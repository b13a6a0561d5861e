package services

import "errors"

// Typed failures returned by the ledger services. Computation errors are
// surfaced to the caller, never coerced to a zero result; the presentation
// layer decides user-facing messaging.
var (
	// ErrNotFound is returned when a referenced customer, order, creditor,
	// representative or deposit is absent. A statement over a missing party
	// is unavailable, not zero.
	ErrNotFound = errors.New("record not found")

	// ErrIllegalTransition is returned when a status change violates the
	// lifecycle state machine.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrDoubleMerge is returned when merging a temp order that has already
	// been merged into a canonical order.
	ErrDoubleMerge = errors.New("temp order already merged")

	// ErrExcessPayment is returned when a payment would push the total paid
	// above the order's selling price.
	ErrExcessPayment = errors.New("payment exceeds remaining amount")

	// ErrInconsistent marks an orphaned ledger entry referencing a missing
	// parent. Orphans are logged and excluded from aggregates, not fatal.
	ErrInconsistent = errors.New("inconsistent ledger reference")
)
