// Package delivery provides the Delivery aggregate: the record of one
// order's physical delivery, created exactly once per order by the
// assignment engine and advanced through a forward-only status chain
// (Pending, Accepted, PickedUp, OnTheWay, Delivered).
//
// The one-delivery-per-order invariant is not enforced here; it lives in
// the storage layer's unique constraint on the order reference, with races
// resolved by converging on the existing row.
package delivery
