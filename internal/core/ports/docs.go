// Package ports defines the contracts between the ordering core and its adapters:
// persistence (orders, delivery schedule, outbox, unit of work), the read-only
// catalog, the cart, order numbering, message transport and metrics.
package ports
