// Package partnerrepo provides data transfer objects and mapping functions
// for delivery partner persistence.
package partnerrepo

import (
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"

	"github.com/google/uuid"
)

// PartnerDTO represents the database structure for persisting delivery
// partners.
type PartnerDTO struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name      string      `gorm:"type:varchar(255);not null"`
	Phone     string      `gorm:"type:varchar(32);not null"`
	Vehicle   int         `gorm:"not null"`
	Location  GeoPointDTO `gorm:"embedded;embeddedPrefix:location_"`
	Available bool        `gorm:"index"`
}

// TableName specifies the database table name for partner entities.
func (PartnerDTO) TableName() string {
	return "partners"
}

// GeoPointDTO represents the embedded last known coordinates within the
// partners table.
type GeoPointDTO struct {
	Latitude  float64 `gorm:"type:double precision"`
	Longitude float64 `gorm:"type:double precision"`
}

// fromDomain converts a partner domain aggregate to its database representation.
func fromDomain(aggregate *partner.Partner) PartnerDTO {
	return PartnerDTO{
		ID:      aggregate.ID().Bytes(),
		Name:    aggregate.Name(),
		Phone:   aggregate.Phone(),
		Vehicle: int(aggregate.Vehicle()),
		Location: GeoPointDTO{
			Latitude:  aggregate.Location().Latitude(),
			Longitude: aggregate.Location().Longitude(),
		},
		Available: aggregate.IsAvailable(),
	}
}

// toDomain converts a database DTO to a partner domain aggregate.
func toDomain(dto PartnerDTO) (*partner.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Location.Latitude, dto.Location.Longitude)
	if err != nil {
		return nil, err
	}

	return partner.RestorePartner(
		id, dto.Name, dto.Phone, partner.VehicleType(dto.Vehicle), location, dto.Available,
	)
}
