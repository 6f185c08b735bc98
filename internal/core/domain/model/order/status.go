package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// The enum is ordered: a transition is legal only when it moves forward
// through the sequence, with Cancelled as the single exception reachable
// from Pending or Confirmed.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Cooking ──> OutForDelivery ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when an order is first created.
	Pending

	// Confirmed indicates payment completed and the restaurant may start.
	Confirmed

	// Preparing indicates the restaurant accepted and is preparing the order.
	Preparing

	// Cooking indicates the order is being cooked.
	Cooking

	// OutForDelivery indicates a delivery partner is carrying the order.
	OutForDelivery

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled. Terminal, and only
	// reachable from Pending or Confirmed.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		Confirmed:      "Confirmed",
		Preparing:      "Preparing",
		Cooking:        "Cooking",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// StatusFromString parses a status from its string representation.
// Returns an error for unrecognized or Unknown input.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid order status", s))
}

// Validate checks if the Status value is valid.
// Unknown (0) and out-of-range values are invalid.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition is expected from the status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether a transition from s to next is legal.
//
// Rules:
//   - Cancelled is reachable only from Pending or Confirmed
//   - every other transition must move forward through the enum ordering
//   - terminal statuses allow no transitions
//
// A same-status "transition" is not legal here; the aggregate treats it as
// an idempotent no-op before consulting this method.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Validate() != nil || next.Validate() != nil {
		return false
	}

	if next == Cancelled {
		return s == Pending || s == Confirmed
	}

	return !s.IsTerminal() && next > s
}
