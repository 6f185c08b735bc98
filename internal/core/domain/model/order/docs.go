// Package order provides the Order aggregate and its status state machine.
//
// The package includes:
//   - Order: the aggregate root owning the canonical status, the append-only
//     status history, and the payment status recorded by reconciliation
//   - Status: a forward-ordered state machine with Cancelled as the only
//     non-monotonic transition, legal from Pending or Confirmed
//   - PaymentStatus: the order-level view of payment reconciliation
//   - Item: a validated line item value object
//
// Transitions are idempotent by contract: re-applying the current status is
// a no-op, which is what lets at-least-once event delivery converge without
// consumer-side deduplication.
package order
