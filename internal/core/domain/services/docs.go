// Package services contains domain services: business rules that need an
// aggregate's state but do not belong to a single method of it.
//
// AutoDeliveryPolicy decides whether an order may be promoted to delivered
// once its auto-delivery window elapses.
package services
