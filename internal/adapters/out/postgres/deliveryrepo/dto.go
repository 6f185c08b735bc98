// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. The unique index on order_id is what guarantees
// at most one delivery per order, even under concurrent assignment requests.
package deliveryrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO represents the database structure for persisting delivery
// aggregates.
type DeliveryDTO struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID   `gorm:"type:uuid;uniqueIndex"`
	PartnerID *uuid.UUID  `gorm:"type:uuid;index"`
	Dropoff   GeoPointDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	Status    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// GeoPointDTO represents the embedded drop-off coordinates within the
// deliveries table.
type GeoPointDTO struct {
	Latitude  float64 `gorm:"type:double precision"`
	Longitude float64 `gorm:"type:double precision"`
}

// fromDomain converts a delivery domain aggregate to its database representation.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	var partnerID *uuid.UUID
	if id := aggregate.PartnerID(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	return DeliveryDTO{
		ID:        aggregate.ID().Bytes(),
		OrderID:   aggregate.OrderID().Bytes(),
		PartnerID: partnerID,
		Dropoff: GeoPointDTO{
			Latitude:  aggregate.Dropoff().Latitude(),
			Longitude: aggregate.Dropoff().Longitude(),
		},
		Status:    int(aggregate.Status()),
		CreatedAt: aggregate.CreatedAt(),
		UpdatedAt: aggregate.UpdatedAt(),
	}
}

// toDomain converts a database DTO to a delivery domain aggregate.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, partnerErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if partnerErr != nil {
			return nil, partnerErr
		}
		partnerID = &pID
	}

	dropoff, err := kernel.NewGeoPoint(dto.Dropoff.Latitude, dto.Dropoff.Longitude)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(
		id, orderID, partnerID, dropoff,
		delivery.Status(dto.Status), dto.CreatedAt, dto.UpdatedAt,
	)
}
