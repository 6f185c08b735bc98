package partner

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// VehicleType describes how a delivery partner travels.
type VehicleType int

const (
	// VehicleUnknown represents an invalid or undefined vehicle type.
	VehicleUnknown VehicleType = iota

	// Bicycle partner.
	Bicycle

	// Motorbike partner.
	Motorbike

	// Car partner.
	Car
)

func getVehicleTypeStrings() map[VehicleType]string {
	return map[VehicleType]string{
		VehicleUnknown: "Unknown",
		Bicycle:        "Bicycle",
		Motorbike:      "Motorbike",
		Car:            "Car",
	}
}

// VehicleTypeFromString parses a vehicle type from its string representation.
func VehicleTypeFromString(s string) (VehicleType, error) {
	for v, str := range getVehicleTypeStrings() {
		if str == s && v != VehicleUnknown {
			return v, nil
		}
	}
	return VehicleUnknown, errs.NewValueIsInvalidErrorWithCause("vehicleType",
		fmt.Errorf("%q is not a valid vehicle type", s))
}

// Validate checks if the VehicleType value is valid.
func (v VehicleType) Validate() error {
	if v < Bicycle || v > Car {
		return errs.NewValueIsInvalidErrorWithCause("vehicleType",
			fmt.Errorf("%d is not a valid vehicle type", v))
	}
	return nil
}

// String returns the human-readable name of the vehicle type.
func (v VehicleType) String() string {
	if str, ok := getVehicleTypeStrings()[v]; ok {
		return str
	}
	return "Unknown"
}
