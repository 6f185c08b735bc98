package payment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a payment.
//
// State transitions:
//
//	Pending ──┬──> Processing ──┬──> Completed ──> Refunded
//	          │        ^        │
//	          │        │        └──> Failed
//	          │     (retry)          │
//	          └──> Completed/Failed ─┘
//
// Failed payments may be retried (Failed -> Processing). Completed and
// Refunded never regress.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status before the gateway has been contacted.
	Pending

	// Processing indicates a charge was initiated at the gateway and the
	// outcome has not arrived yet.
	Processing

	// Completed indicates the gateway confirmed the charge.
	Completed

	// Failed indicates the gateway rejected the charge. Retryable.
	Failed

	// Refunded indicates a completed charge was returned. Terminal.
	Refunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		Processing: "Processing",
		Completed:  "Completed",
		Failed:     "Failed",
		Refunded:   "Refunded",
	}
}

// StatusFromString parses a status from its string representation.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status",
		fmt.Errorf("%q is not a valid payment status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s < Pending || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// CanTransitionTo reports whether a transition from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Validate() != nil || next.Validate() != nil {
		return false
	}

	switch s {
	case Pending:
		return next == Processing || next == Completed || next == Failed
	case Processing:
		return next == Completed || next == Failed
	case Failed:
		return next == Processing
	case Completed:
		return next == Refunded
	default: // Refunded, Unknown
		return false
	}
}
