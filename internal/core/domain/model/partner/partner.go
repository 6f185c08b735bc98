package partner

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrNameIsRequired is returned when creating a partner without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPhoneIsRequired is returned when creating a partner without a phone number.
	ErrPhoneIsRequired = errs.NewValueIsRequiredError("phone")
	// ErrPartnerIsNotConstructed is returned when using an improperly initialized Partner.
	ErrPartnerIsNotConstructed = errors.New(
		"Partner must be created via NewPartner or RestorePartner constructor")
	// ErrPartnerNotAvailable is returned when reserving a partner who already
	// carries an active delivery.
	ErrPartnerNotAvailable = errors.New("partner is not available")
)

// Partner represents a delivery partner: the single shared mutable resource
// contended by concurrent assignment attempts.
//
// Invariants:
//   - a partner with availability=false has exactly one active delivery
//     pointing at them; Reserve flips the flag and must be persisted in the
//     same transaction that creates the delivery so the two are observed
//     atomically
//   - location updates come from the partner's own app, an external
//     collaborator; this module only reads them for assignment
type Partner struct {
	id        kernel.UUID
	name      string
	phone     string
	vehicle   VehicleType
	location  kernel.GeoPoint
	available bool

	isConstructed bool
}

// NewPartner creates an available Partner at the given location.
func NewPartner(
	id kernel.UUID, name, phone string, vehicle VehicleType, location kernel.GeoPoint,
) (*Partner, error) {
	p := &Partner{
		available:     true,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setPhone(phone),
		p.setVehicle(vehicle),
		p.setLocation(location),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePartner reconstructs a Partner from persistence.
func RestorePartner(
	id kernel.UUID, name, phone string, vehicle VehicleType,
	location kernel.GeoPoint, available bool,
) (*Partner, error) {
	p, err := NewPartner(id, name, phone, vehicle, location)
	if err != nil {
		return nil, err
	}

	p.available = available
	return p, nil
}

// Validate ensures the Partner instance was properly constructed.
func (p *Partner) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPartnerIsNotConstructed
	}

	return nil
}

// ID returns the partner's unique identifier.
func (p *Partner) ID() kernel.UUID {
	return p.id
}

// Name returns the partner's display name.
func (p *Partner) Name() string {
	return p.name
}

// Phone returns the partner's contact phone number.
func (p *Partner) Phone() string {
	return p.phone
}

// Vehicle returns the partner's vehicle type.
func (p *Partner) Vehicle() VehicleType {
	return p.vehicle
}

// Location returns the partner's last known coordinates.
func (p *Partner) Location() kernel.GeoPoint {
	return p.location
}

// IsAvailable reports whether the partner can take a new delivery.
func (p *Partner) IsAvailable() bool {
	return p.available
}

// Reserve marks the partner as carrying an active delivery.
// Returns ErrPartnerNotAvailable when the partner is already reserved,
// which a concurrent assignment attempt treats as "pick someone else".
func (p *Partner) Reserve() error {
	if !p.available {
		return ErrPartnerNotAvailable
	}

	p.available = false
	return nil
}

// Release restores availability once the active delivery finished.
// Called by the collaborator that observes delivery completion.
func (p *Partner) Release() {
	p.available = true
}

// MoveTo updates the partner's last known location.
func (p *Partner) MoveTo(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}

	p.location = location
	return nil
}

func (p *Partner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Partner) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Partner) setPhone(phone string) error {
	if phone == "" {
		return ErrPhoneIsRequired
	}
	p.phone = phone
	return nil
}

func (p *Partner) setVehicle(vehicle VehicleType) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	p.vehicle = vehicle
	return nil
}

func (p *Partner) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = location
	return nil
}
