package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// PaymentStatus reflects on the order what payment reconciliation has
// concluded so far. It is updated only through payment reconciliation,
// never directly by the customer-facing API.
type PaymentStatus int

const (
	// PaymentUnknown represents an invalid or undefined payment status.
	PaymentUnknown PaymentStatus = iota

	// PaymentPending means no payment has completed for the order yet.
	PaymentPending

	// PaymentPaid means a payment completed successfully.
	PaymentPaid

	// PaymentFailed means the last payment attempt failed. The order is
	// not auto-cancelled; that decision is left to the surrounding system.
	PaymentFailed
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown: "Unknown",
		PaymentPending: "Pending",
		PaymentPaid:    "Paid",
		PaymentFailed:  "Failed",
	}
}

// PaymentStatusFromString parses a payment status from its string representation.
func PaymentStatusFromString(s string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == s && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause("paymentStatus",
		fmt.Errorf("%q is not a valid payment status", s))
}

// Validate checks if the PaymentStatus value is valid.
func (s PaymentStatus) Validate() error {
	if s < PaymentPending || s > PaymentFailed {
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus",
			fmt.Errorf("%d is not a valid payment status", s))
	}
	return nil
}

// String returns the human-readable name of the payment status.
func (s PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}
