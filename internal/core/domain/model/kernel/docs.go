// Package kernel provides shared value objects used across all aggregates
// of the fulfillment domain.
//
// The package includes:
//   - UUID: A validated wrapper over github.com/google/uuid used as the
//     identity type for every aggregate
//   - GeoPoint: A geographic coordinate pair with bounds validation and
//     Haversine distance calculation, used for partner locations and
//     delivery drop-off points
//
// Both types are immutable value objects whose zero values are invalid;
// instances must be created through their constructors.
package kernel
