package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAwaitingAssignmentQueryHandler retrieves orders that are confirmed and
// paid but still have no delivery row. The anti-join mirrors the condition
// the retry job sweeps on.
type GetAwaitingAssignmentQueryHandler struct {
	db *gorm.DB
}

// NewGetAwaitingAssignmentQueryHandler creates a handler for awaiting
// assignment queries. Requires a GORM database connection for query execution.
func NewGetAwaitingAssignmentQueryHandler(db *gorm.DB) GetAwaitingAssignmentQueryHandler {
	return GetAwaitingAssignmentQueryHandler{db: db}
}

// Handle executes the query to retrieve all orders awaiting assignment.
// Results are sorted by order ID for consistent output.
func (h GetAwaitingAssignmentQueryHandler) Handle(
	ctx context.Context,
	query GetAwaitingAssignmentQuery,
) ([]GetAwaitingAssignmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetAwaitingAssignmentQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			orders.id,
			orders.dropoff_latitude,
			orders.dropoff_longitude,
			orders.total_price
		FROM orders
		LEFT JOIN deliveries ON deliveries.order_id = orders.id
		WHERE deliveries.id IS NULL
		  AND orders.status = ?
		  AND orders.payment_status = ?
		ORDER BY orders.id
	`, int(order.Confirmed), int(order.PaymentPaid)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetAwaitingAssignmentQueryResponse
		var id uuid.UUID
		var latitude, longitude float64

		err = rows.Scan(&id, &latitude, &longitude, &orderResp.TotalPrice)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		dropoff, geoErr := kernel.NewGeoPoint(latitude, longitude)
		if geoErr != nil {
			return nil, geoErr
		}
		orderResp.Dropoff = dropoff

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
