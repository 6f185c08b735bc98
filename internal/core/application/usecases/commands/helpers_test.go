package commands_test

import (
	"io"
	"log/slog"
	"testing"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/model/payment"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDropoff(t *testing.T) kernel.GeoPoint {
	t.Helper()
	point, err := kernel.NewGeoPoint(52.5200, 13.4050)
	require.NoError(t, err)
	return point
}

func testOrder(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Margherita", 1150, 2)
	require.NoError(t, err)

	ord, err := order.NewOrder(id, kernel.NewUUID(), kernel.NewUUID(), testDropoff(t), []order.Item{item})
	require.NoError(t, err)
	return ord
}

func testPartner(t *testing.T, name string, lat, lon float64) *partner.Partner {
	t.Helper()
	location, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)

	p, err := partner.NewPartner(kernel.NewUUID(), name, "+49151", partner.Bicycle, location)
	require.NoError(t, err)
	return p
}

func testDelivery(t *testing.T, orderID kernel.UUID) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(kernel.NewUUID(), orderID, kernel.NewUUID(), testDropoff(t))
	require.NoError(t, err)
	return d
}

func testPayment(t *testing.T, orderID kernel.UUID) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(kernel.NewUUID(), orderID, 2300, "EUR", payment.Card)
	require.NoError(t, err)
	return p
}
