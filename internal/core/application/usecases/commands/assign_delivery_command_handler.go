package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// AssignDeliveryResult reports the outcome of an assignment request.
// Created distinguishes a fresh assignment from an idempotent replay that
// found an existing delivery.
type AssignDeliveryResult struct {
	Delivery *delivery.Delivery
	Created  bool
}

// AssignDeliveryCommandHandler matches an order with the nearest available
// delivery partner.
//
// The handler is safe to call concurrently for the same order: the delivery
// repository enforces one delivery per order, and when a concurrent request
// wins the race this handler converges on the winner's delivery instead of
// failing. Partner reservation and delivery creation commit in the same
// transaction, so a crash cannot leave a partner reserved without a delivery.
type AssignDeliveryCommandHandler struct {
	uowFactory AssignmentUoWFactory
	selector   services.PartnerSelector
	push       ports.PartnerPush
	notifier   ports.NotificationClient
	logger     *slog.Logger
}

// NewAssignDeliveryCommandHandler creates a handler for delivery assignment.
func NewAssignDeliveryCommandHandler(
	uowFactory AssignmentUoWFactory,
	selector services.PartnerSelector,
	push ports.PartnerPush,
	notifier ports.NotificationClient,
	logger *slog.Logger,
) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		selector:   selector,
		push:       push,
		notifier:   notifier,
		logger:     logger.With("component", "assign_delivery"),
	}
}

// Handle processes the assignment command.
//
// Replays short-circuit on the existing delivery (with a best-effort
// reminder push to its partner). Otherwise the order must exist, the
// nearest partner is reserved with an availability-guarded write, and the
// reservation plus delivery insert commit atomically. Returns
// services.ErrNoPartnersAvailable when every partner is busy; the caller
// decides whether to retry later.
func (h AssignDeliveryCommandHandler) Handle(
	ctx context.Context, command AssignDeliveryCommand,
) (AssignDeliveryResult, error) {
	if err := command.Validate(); err != nil {
		return AssignDeliveryResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignDeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, err := uow.DeliveryRepository().GetByOrderID(ctx, command.OrderID())
	if err == nil {
		h.remindPartner(ctx, existing)
		return AssignDeliveryResult{Delivery: existing, Created: false}, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return AssignDeliveryResult{}, err
	}

	if _, err = uow.OrderRepository().Get(ctx, command.OrderID()); err != nil {
		return AssignDeliveryResult{}, err
	}

	partnerRepo := uow.PartnerRepository()
	candidates, err := partnerRepo.GetAllAvailable(ctx)
	if err != nil {
		return AssignDeliveryResult{}, err
	}

	selected, err := h.reserveNearest(ctx, partnerRepo, command.Dropoff(), candidates)
	if err != nil {
		return AssignDeliveryResult{}, err
	}

	newDelivery, err := delivery.NewDelivery(
		kernel.NewUUID(), command.OrderID(), selected.ID(), command.Dropoff(),
	)
	if err != nil {
		return AssignDeliveryResult{}, err
	}

	stored, wasCreated, err := uow.DeliveryRepository().AddIfAbsent(ctx, newDelivery)
	if err != nil {
		return AssignDeliveryResult{}, err
	}

	if !wasCreated {
		// A concurrent request created the delivery first. Roll back so the
		// reservation taken above is discarded, and converge on the winner.
		_ = uow.Rollback(ctx)
		h.remindPartner(ctx, stored)
		return AssignDeliveryResult{Delivery: stored, Created: false}, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignDeliveryResult{}, err
	}

	h.announceAssignment(ctx, stored)

	return AssignDeliveryResult{Delivery: stored, Created: true}, nil
}

// reserveNearest picks the closest candidate and reserves it with a guarded
// write. The availability snapshot may be stale: losing the guard means a
// concurrent assignment took that partner in between, so the candidate is
// dropped and selection runs again. Returns services.ErrNoPartnersAvailable
// once the candidates are exhausted.
func (h AssignDeliveryCommandHandler) reserveNearest(
	ctx context.Context,
	partnerRepo ports.PartnerRepository,
	dropoff kernel.GeoPoint,
	candidates []*partner.Partner,
) (*partner.Partner, error) {
	for {
		selected, err := h.selector.Select(dropoff, candidates)
		if err != nil {
			return nil, err
		}

		if err = selected.Reserve(); err != nil {
			return nil, err
		}

		err = partnerRepo.Reserve(ctx, selected)
		if err == nil {
			return selected, nil
		}
		if !errors.Is(err, partner.ErrPartnerNotAvailable) {
			return nil, err
		}

		candidates = withoutPartner(candidates, selected.ID())
	}
}

func withoutPartner(candidates []*partner.Partner, id kernel.UUID) []*partner.Partner {
	remaining := make([]*partner.Partner, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.ID().IsEqual(id) {
			remaining = append(remaining, candidate)
		}
	}
	return remaining
}

func (h AssignDeliveryCommandHandler) announceAssignment(
	ctx context.Context, assigned *delivery.Delivery,
) {
	partnerID := assigned.PartnerID()
	if partnerID == nil {
		return
	}

	err := h.push.PushAssignment(ctx, *partnerID, ports.PartnerAssignment{
		DeliveryID: assigned.ID(),
		OrderID:    assigned.OrderID(),
		Dropoff:    assigned.Dropoff(),
	})
	if err != nil {
		h.logger.Warn("partner push failed",
			"delivery_id", assigned.ID().String(), "error", err)
	}

	err = h.notifier.Notify(ctx, ports.Notification{
		RecipientID: *partnerID,
		Subject:     "New delivery assigned",
		Message:     fmt.Sprintf("You have been assigned delivery %s.", assigned.ID()),
	})
	if err != nil {
		h.logger.Warn("partner notification failed",
			"delivery_id", assigned.ID().String(), "error", err)
	}
}

func (h AssignDeliveryCommandHandler) remindPartner(
	ctx context.Context, existing *delivery.Delivery,
) {
	partnerID := existing.PartnerID()
	if partnerID == nil {
		return
	}

	err := h.push.PushAssignment(ctx, *partnerID, ports.PartnerAssignment{
		DeliveryID: existing.ID(),
		OrderID:    existing.OrderID(),
		Dropoff:    existing.Dropoff(),
	})
	if err != nil {
		h.logger.Warn("partner reminder push failed",
			"delivery_id", existing.ID().String(), "error", err)
	}
}
