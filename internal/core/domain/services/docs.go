// Package services contains domain services that coordinate logic spanning
// multiple aggregates. PartnerSelector implements the distance-based
// matching step of delivery assignment.
package services
