package jobs

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

// AssignmentRetryJob periodically sweeps orders that are confirmed and paid
// but still have no delivery, and re-runs assignment for each of them. It
// picks up orders whose synchronous assignment found no free partner, and
// orders created while the assignment path was unavailable.
type AssignmentRetryJob struct {
	awaitingHandler queries.GetAwaitingAssignmentQueryHandler
	assignHandler   commands.AssignDeliveryCommandHandler
	cron            *cron.Cron
	logger          *slog.Logger
}

// NewAssignmentRetryJob creates the retry job. It runs every 30 seconds.
func NewAssignmentRetryJob(
	awaitingHandler queries.GetAwaitingAssignmentQueryHandler,
	assignHandler commands.AssignDeliveryCommandHandler,
	logger *slog.Logger,
) *AssignmentRetryJob {
	return &AssignmentRetryJob{
		awaitingHandler: awaitingHandler,
		assignHandler:   assignHandler,
		cron:            cron.New(cron.WithSeconds()),
		logger:          logger.With("component", "assignment_retry_job"),
	}
}

// Start schedules the job.
func (j *AssignmentRetryJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Assignment retry job started (running every 30 seconds)")
	return nil
}

// Stop stops the job.
func (j *AssignmentRetryJob) Stop() {
	j.cron.Stop()
	j.logger.Info("Assignment retry job stopped")
}

func (j *AssignmentRetryJob) run() {
	ctx := context.Background()

	awaiting, err := j.awaitingHandler.Handle(ctx, queries.NewGetAwaitingAssignmentQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Assignment retry job failed to list orders", "error", err)
		return
	}

	for _, ord := range awaiting {
		command, cmdErr := commands.NewAssignDeliveryCommand(ord.ID, ord.Dropoff)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Assignment retry job skipped order",
				"orderId", ord.ID, "error", cmdErr)
			continue
		}

		if _, assignErr := j.assignHandler.Handle(ctx, command); assignErr != nil {
			// No free partner is the normal reason an order is still waiting.
			if !errors.Is(assignErr, services.ErrNoPartnersAvailable) {
				j.logger.ErrorContext(ctx, "Assignment retry failed",
					"orderId", ord.ID, "error", assignErr)
			}
		}
	}
}
