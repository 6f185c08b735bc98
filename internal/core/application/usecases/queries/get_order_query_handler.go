package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves the order read model from the database.
// Reads go straight to SQL and bypass the aggregate: tracking does not need
// the domain invariants, only the stored rows.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order tracking queries.
// Requires a GORM database connection for query execution.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query and assembles the order read model.
// Returns errs.ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response, err := h.loadHeader(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.Items, err = h.loadItems(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.History, err = h.loadHistory(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	return response, nil
}

func (h GetOrderQueryHandler) loadHeader(
	ctx context.Context, orderID kernel.UUID,
) (GetOrderQueryResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			status,
			payment_status,
			total_price,
			dropoff_latitude,
			dropoff_longitude
		FROM orders
		WHERE id = ?
	`, orderID.Bytes()).Rows()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return GetOrderQueryResponse{}, err
		}
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", orderID.String())
	}

	var (
		response            GetOrderQueryResponse
		id, customerID      uuid.UUID
		status, payStatus   int
		latitude, longitude float64
	)

	err = rows.Scan(&id, &customerID, &status, &payStatus, &response.TotalPrice,
		&latitude, &longitude)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if response.Dropoff, err = kernel.NewGeoPoint(latitude, longitude); err != nil {
		return GetOrderQueryResponse{}, err
	}

	response.Status = order.Status(status).String()
	response.PaymentStatus = order.PaymentStatus(payStatus).String()
	return response, rows.Err()
}

func (h GetOrderQueryHandler) loadItems(
	ctx context.Context, orderID kernel.UUID,
) ([]GetOrderItemResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			menu_item_id,
			name,
			unit_price,
			quantity
		FROM order_items
		WHERE order_id = ?
		ORDER BY menu_item_id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]GetOrderItemResponse, 0)
	for rows.Next() {
		var item GetOrderItemResponse
		var menuItemID uuid.UUID

		err = rows.Scan(&menuItemID, &item.Name, &item.UnitPrice, &item.Quantity)
		if err != nil {
			return nil, err
		}

		if item.MenuItemID, err = kernel.UUIDFromBytes(menuItemID[:]); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (h GetOrderQueryHandler) loadHistory(
	ctx context.Context, orderID kernel.UUID,
) ([]GetOrderStatusChangeResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			at
		FROM order_status_changes
		WHERE order_id = ?
		ORDER BY seq
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]GetOrderStatusChangeResponse, 0)
	for rows.Next() {
		var change GetOrderStatusChangeResponse
		var status int

		if err = rows.Scan(&status, &change.At); err != nil {
			return nil, err
		}

		change.Status = order.Status(status).String()
		history = append(history, change)
	}

	return history, rows.Err()
}
