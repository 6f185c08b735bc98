// Package paymentrepo provides data transfer objects and mapping functions
// for payment persistence. Gateway metadata is stored as a jsonb document;
// the transaction_id index serves webhook lookups.
package paymentrepo

import (
	"encoding/json"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/payment"

	"github.com/google/uuid"
)

// PaymentDTO represents the database structure for persisting payment
// aggregates. The unique index on order_id keeps one payment record per
// order across retries.
type PaymentDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Amount        int64     `gorm:"not null"`
	Currency      string    `gorm:"type:varchar(3);not null"`
	Method        int       `gorm:"not null"`
	Status        int       `gorm:"index"`
	TransactionID string    `gorm:"type:varchar(255);index"`
	Metadata      []byte    `gorm:"type:jsonb"`
}

// TableName specifies the database table name for payment entities.
func (PaymentDTO) TableName() string {
	return "payments"
}

// fromDomain converts a payment domain aggregate to its database representation.
func fromDomain(aggregate *payment.Payment) (PaymentDTO, error) {
	var metadata []byte
	if len(aggregate.Metadata()) > 0 {
		raw, err := json.Marshal(aggregate.Metadata())
		if err != nil {
			return PaymentDTO{}, err
		}
		metadata = raw
	}

	return PaymentDTO{
		ID:            aggregate.ID().Bytes(),
		OrderID:       aggregate.OrderID().Bytes(),
		Amount:        aggregate.Amount(),
		Currency:      aggregate.Currency(),
		Method:        int(aggregate.Method()),
		Status:        int(aggregate.Status()),
		TransactionID: aggregate.TransactionID(),
		Metadata:      metadata,
	}, nil
}

// toDomain converts a database DTO to a payment domain aggregate.
func toDomain(dto PaymentDTO) (*payment.Payment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var metadata map[string]string
	if len(dto.Metadata) > 0 {
		if err = json.Unmarshal(dto.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	return payment.RestorePayment(
		id, orderID,
		dto.Amount, dto.Currency, payment.Method(dto.Method),
		payment.Status(dto.Status), dto.TransactionID, metadata,
	)
}
