// Package notifications implements the Notification Dispatcher: it turns order
// lifecycle events into transactional messages and isolates the caller from
// transport failures by parking failed messages in the outbox.
package notifications
