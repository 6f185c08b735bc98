package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetAwaitingAssignmentQueryIsNotConstructed = errors.New(
		"GetAwaitingAssignmentQuery must be created via NewGetAwaitingAssignmentQuery constructor",
	)
)

// GetAwaitingAssignmentQuery retrieves confirmed, paid orders that have no
// delivery yet. Feeds the assignment retry job and operational tooling.
type GetAwaitingAssignmentQuery struct {
	guard guard.ConstructorGuard
}

// NewGetAwaitingAssignmentQuery creates a query to retrieve orders awaiting
// delivery assignment. This is a parameterless query.
func NewGetAwaitingAssignmentQuery() GetAwaitingAssignmentQuery {
	return GetAwaitingAssignmentQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetAwaitingAssignmentQueryIsNotConstructed if validation fails.
func (q GetAwaitingAssignmentQuery) Validate() error {
	return q.guard.Validate(ErrGetAwaitingAssignmentQueryIsNotConstructed)
}

// GetAwaitingAssignmentQueryResponse represents one order waiting for a
// delivery partner.
type GetAwaitingAssignmentQueryResponse struct {
	ID         kernel.UUID
	Dropoff    kernel.GeoPoint
	TotalPrice int64
}
