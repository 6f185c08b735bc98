// Package orderrepo provides data transfer objects and mapping functions
// for order persistence. Orders are stored across three tables: the order
// row itself, its immutable line items and its append-only status history.
package orderrepo

import (
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
type OrderDTO struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"`
	CustomerID    uuid.UUID   `gorm:"type:uuid;index"`
	RestaurantID  uuid.UUID   `gorm:"type:uuid;index"`
	Dropoff       GeoPointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	TotalPrice    int64
	Status        int `gorm:"index"`
	PaymentStatus int

	Items   []ItemDTO         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []StatusChangeDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// GeoPointDTO represents the embedded drop-off coordinates within the order table.
type GeoPointDTO struct {
	Latitude  float64 `gorm:"type:double precision"`
	Longitude float64 `gorm:"type:double precision"`
}

// ItemDTO represents one order line item. Line items never change after the
// order is created.
type ItemDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	MenuItemID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string
	UnitPrice  int64
	Quantity   int
}

// TableName specifies the database table name for order line items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// StatusChangeDTO represents one entry of the order's append-only status
// history. Seq preserves the order of entries; existing rows are never
// updated or deleted.
type StatusChangeDTO struct {
	OrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq     int       `gorm:"primaryKey"`
	Status  int
	At      time.Time
}

// TableName specifies the database table name for order status history.
func (StatusChangeDTO) TableName() string {
	return "order_status_changes"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:    aggregate.ID().Bytes(),
			MenuItemID: item.MenuItemID().Bytes(),
			Name:       item.Name(),
			UnitPrice:  item.UnitPrice(),
			Quantity:   item.Quantity(),
		})
	}

	history := make([]StatusChangeDTO, 0, len(aggregate.History()))
	for seq, change := range aggregate.History() {
		history = append(history, StatusChangeDTO{
			OrderID: aggregate.ID().Bytes(),
			Seq:     seq,
			Status:  int(change.Status),
			At:      change.At,
		})
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		CustomerID:   aggregate.CustomerID().Bytes(),
		RestaurantID: aggregate.RestaurantID().Bytes(),
		Dropoff: GeoPointDTO{
			Latitude:  aggregate.Dropoff().Latitude(),
			Longitude: aggregate.Dropoff().Longitude(),
		},
		TotalPrice:    aggregate.TotalPrice(),
		Status:        int(aggregate.Status()),
		PaymentStatus: int(aggregate.PaymentStatus()),
		Items:         items,
		History:       history,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// The aggregate re-validates every invariant, so corrupt rows surface as
// errors instead of invalid aggregates.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Latitude, dto.Dropoff.Longitude)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		menuItemID, itemErr := kernel.UUIDFromBytes(itemDTO.MenuItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewItem(menuItemID, itemDTO.Name, itemDTO.UnitPrice, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	sort.Slice(dto.History, func(i, j int) bool { return dto.History[i].Seq < dto.History[j].Seq })
	history := make([]order.StatusChange, 0, len(dto.History))
	for _, changeDTO := range dto.History {
		history = append(history, order.StatusChange{
			Status: order.Status(changeDTO.Status),
			At:     changeDTO.At,
		})
	}

	return order.RestoreOrder(
		id, customerID, restaurantID, dropoff, items,
		order.Status(dto.Status), order.PaymentStatus(dto.PaymentStatus), history,
	)
}
