// Package entity defines the domain models for the newsletter feature.
package entity

import "time"

// DefaultAppType identifies subscriptions made from this service.
const DefaultAppType = "coin"

// Subscriber is a newsletter subscription.
type Subscriber struct {
	Email     string
	AppType   string
	CreatedAt time.Time
}
