package services

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
)

// ErrNoPartnersAvailable is returned when no delivery partner can take an
// order: either no candidates were supplied or none of them is available.
var ErrNoPartnersAvailable = errors.New("no delivery partners available")

// PartnerSelector is a domain service that picks the delivery partner
// closest to a drop-off point.
//
// Selection rules:
//   - only available partners are considered
//   - distance is the Haversine great-circle distance from the partner's
//     last known location to the drop-off point
//   - ties go to the first candidate in input order; candidates arrive in
//     repository query order, which is stable enough for a rare, non-critical
//     case
//
// The selector does not reserve the partner; reservation and delivery
// creation happen together in the assignment use case so the storage layer
// can make them atomic.
type PartnerSelector struct{}

// NewPartnerSelector creates a new PartnerSelector instance.
func NewPartnerSelector() PartnerSelector {
	return PartnerSelector{}
}

// Select returns the nearest available partner for the given drop-off point.
// Returns ErrNoPartnersAvailable when no candidate qualifies.
func (s PartnerSelector) Select(
	dropoff kernel.GeoPoint, candidates []*partner.Partner,
) (*partner.Partner, error) {
	if err := dropoff.Validate(); err != nil {
		return nil, err
	}

	var (
		best     *partner.Partner
		bestDist float64
	)

	for _, candidate := range candidates {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}

		if !candidate.IsAvailable() {
			continue
		}

		dist, err := candidate.Location().DistanceKm(dropoff)
		if err != nil {
			return nil, err
		}

		if best == nil || dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}

	if best == nil {
		return nil, ErrNoPartnersAvailable
	}

	return best, nil
}
