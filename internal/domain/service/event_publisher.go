package service

import (
	"context"
	"time"
)

// Event types published by the API.
const (
	EventAccountRegistered = "account.registered"
	EventAccountVerified   = "account.verified"
	EventPostCreated       = "post.created"
	EventPostDeleted       = "post.deleted"
	EventMediaOrphaned     = "media.orphaned"
)

// EventDataMediaKey is the Data entry holding the bucket key of a media object.
const EventDataMediaKey = "key"

// DomainEvent is a fact published for asynchronous consumers.
type DomainEvent struct {
	RequestID   string            `json:"request_id,omitempty"` // For distributed tracing
	EventID     string            `json:"event_id"`
	Type        string            `json:"type"`
	AggregateID string            `json:"aggregate_id"`
	OccurredAt  time.Time         `json:"occurred_at"`
	Data        map[string]string `json:"data,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// Publish sends the event; callers decide whether failure matters.
	Publish(ctx context.Context, event *DomainEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
