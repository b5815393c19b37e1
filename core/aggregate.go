package core

import "time"

// DomainEvent is something that happened to an aggregate.
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() ID
}

// Aggregate is anything that can hold pending domain events.
type Aggregate interface {
	DomainEvents() []DomainEvent
	ClearEvents()
}

// AggregateRoot is embedded by entities that raise domain events.
// Events stay pending until a repository dispatches them.
type AggregateRoot struct {
	events []DomainEvent
}

func (a *AggregateRoot) AddDomainEvent(e DomainEvent) {
	a.events = append(a.events, e)
}

func (a *AggregateRoot) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(a.events))
	copy(out, a.events)
	return out
}

func (a *AggregateRoot) ClearEvents() { a.events = nil }
