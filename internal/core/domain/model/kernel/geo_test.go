package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeoPoint(t *testing.T) {
	t.Run("creates_point_with_valid_coordinates", func(t *testing.T) {
		point, err := kernel.NewGeoPoint(52.52, 13.405)

		require.NoError(t, err)
		require.NoError(t, point.Validate())
		assert.InDelta(t, 52.52, point.Latitude(), 0.000001)
		assert.InDelta(t, 13.405, point.Longitude(), 0.000001)
	})

	t.Run("accepts_boundary_values", func(t *testing.T) {
		for _, coords := range [][2]float64{
			{kernel.LatitudeMin, kernel.LongitudeMin},
			{kernel.LatitudeMax, kernel.LongitudeMax},
			{0, 0},
		} {
			_, err := kernel.NewGeoPoint(coords[0], coords[1])
			require.NoError(t, err)
		}
	})

	t.Run("rejects_latitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(90.1, 0)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("rejects_longitude_out_of_range", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(0, -180.5)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestGeoPoint_Validate(t *testing.T) {
	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var point kernel.GeoPoint

		require.ErrorIs(t, point.Validate(), errs.ErrValueIsRequired)
	})
}

func TestGeoPoint_IsEqual(t *testing.T) {
	t.Run("equal_coordinates_are_equal", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(48.8566, 2.3522)
		b, _ := kernel.NewGeoPoint(48.8566, 2.3522)

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("different_coordinates_are_not_equal", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(48.8566, 2.3522)
		b, _ := kernel.NewGeoPoint(48.8566, 2.3523)

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.False(t, equal)
	})

	t.Run("unconstructed_point_fails", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(48.8566, 2.3522)
		var b kernel.GeoPoint

		_, err := a.IsEqual(b)

		require.Error(t, err)
	})
}

func TestGeoPoint_DistanceKm(t *testing.T) {
	t.Run("zero_distance_to_itself", func(t *testing.T) {
		point, _ := kernel.NewGeoPoint(52.52, 13.405)

		km, err := point.DistanceKm(point)

		require.NoError(t, err)
		assert.InDelta(t, 0, km, 0.001)
	})

	t.Run("berlin_to_hamburg", func(t *testing.T) {
		berlin, _ := kernel.NewGeoPoint(52.5200, 13.4050)
		hamburg, _ := kernel.NewGeoPoint(53.5511, 9.9937)

		km, err := berlin.DistanceKm(hamburg)

		require.NoError(t, err)
		// Great-circle distance is roughly 255 km.
		assert.InDelta(t, 255, km, 5)
	})

	t.Run("distance_is_symmetric", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(40.7128, -74.0060)
		b, _ := kernel.NewGeoPoint(34.0522, -118.2437)

		ab, err := a.DistanceKm(b)
		require.NoError(t, err)
		ba, err := b.DistanceKm(a)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 0.000001)
	})

	t.Run("unconstructed_point_fails", func(t *testing.T) {
		a, _ := kernel.NewGeoPoint(40.7128, -74.0060)
		var b kernel.GeoPoint

		_, err := a.DistanceKm(b)

		require.Error(t, err)
	})
}
