// Package partner provides the DeliveryPartner aggregate. The availability
// flag is the contended resource of the assignment engine: Reserve and the
// creation of the delivery referencing the partner must commit in one
// transaction, so no two orders can hold the same partner.
package partner
