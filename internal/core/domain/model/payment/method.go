package payment

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Method describes how the customer pays for an order.
type Method int

const (
	// MethodUnknown represents an invalid or undefined payment method.
	MethodUnknown Method = iota

	// Card payment through the gateway.
	Card

	// Wallet payment through the gateway.
	Wallet

	// CashOnDelivery settles outside the gateway; the payment record still
	// tracks reconciliation state.
	CashOnDelivery
)

func getMethodStrings() map[Method]string {
	return map[Method]string{
		MethodUnknown:  "Unknown",
		Card:           "Card",
		Wallet:         "Wallet",
		CashOnDelivery: "CashOnDelivery",
	}
}

// MethodFromString parses a payment method from its string representation.
func MethodFromString(s string) (Method, error) {
	for m, str := range getMethodStrings() {
		if str == s && m != MethodUnknown {
			return m, nil
		}
	}
	return MethodUnknown, errs.NewValueIsInvalidErrorWithCause("method",
		fmt.Errorf("%q is not a valid payment method", s))
}

// Validate checks if the Method value is valid.
func (m Method) Validate() error {
	if m < Card || m > CashOnDelivery {
		return errs.NewValueIsInvalidErrorWithCause("method",
			fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

// String returns the human-readable name of the payment method.
func (m Method) String() string {
	if str, ok := getMethodStrings()[m]; ok {
		return str
	}
	return "Unknown"
}
