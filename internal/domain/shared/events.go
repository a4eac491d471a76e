// Package shared holds building blocks used by more than one domain package.
package shared

import "time"

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// AggregateRoot collects domain events raised by an aggregate until the
// application layer drains them after a successful write.
type AggregateRoot struct {
	events []DomainEvent
}

// AddEvent adds a domain event to be dispatched
func (a *AggregateRoot) AddEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// Events returns and clears pending domain events
func (a *AggregateRoot) Events() []DomainEvent {
	events := a.events
	a.events = nil
	return events
}
