// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order fulfillment.
//
// # Available Jobs
//
// 1. AssignmentRetryJob - Runs every 30 seconds to assign confirmed, paid
// orders that still have no delivery to an available partner.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(awaitingHandler, assignHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The retry job treats "no partners available" as an expected business
// outcome and does not log it as an error
// - Other failures are logged per order and never stop the sweep
// - Failed job starts surface to the caller so startup can abort
package jobs
