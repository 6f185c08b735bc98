package delivery

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
// The enum is ordered and transitions only move forward:
//
//	Pending ──> Accepted ──> PickedUp ──> OnTheWay ──> Delivered
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status after the delivery is created for an
	// assigned partner, before the partner has accepted.
	Pending

	// Accepted indicates the partner accepted the delivery.
	Accepted

	// PickedUp indicates the partner collected the order from the restaurant.
	PickedUp

	// OnTheWay indicates the partner is heading to the drop-off point.
	OnTheWay

	// Delivered indicates the order was handed to the customer. Terminal.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Accepted:  "Accepted",
		PickedUp:  "PickedUp",
		OnTheWay:  "OnTheWay",
		Delivered: "Delivered",
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
		fmt.Errorf("%q is not a valid delivery status", s))
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s < Pending || s > Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%d is not a valid delivery status", s))
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
// Deliveries only move forward; Delivered is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if s.Validate() != nil || next.Validate() != nil {
		return false
	}

	return next > s
}
