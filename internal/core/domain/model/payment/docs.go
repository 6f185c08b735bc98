// Package payment provides the Payment aggregate, the source of truth for
// payment reconciliation. The gateway transaction identifier serves as the
// idempotency key for webhook replay detection, and Apply reports whether
// an incoming gateway event changed anything or was a redelivery.
package payment
