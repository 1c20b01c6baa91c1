// Package jobs provides scheduled background tasks for the ordering service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. AutoDeliveryJob - polls scheduled_deliveries for due rows and runs the auto-deliver command for each
// 2. OutboxRelayJob - re-sends failed notifications and retries failed cart clears from the outbox
//
// # Usage
//
//	jobManager := jobs.NewJobManager(autoDeliverHandler, schedule, outbox, dispatcher, carts, schedules, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Delivery guarantees
//
// Both jobs are at-least-once. A failed row keeps its place and its attempt
// counter grows until the per-job maximum; after that it stays in the table
// for inspection. Ticks of one job never overlap.
package jobs
