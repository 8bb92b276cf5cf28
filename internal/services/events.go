package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const (
	// ChannelUsers carries account lifecycle events.
	ChannelUsers = "rekrut.users"
	// ChannelJobs carries job posting changes.
	ChannelJobs = "rekrut.jobs"

	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
	EventUserLoggedOut  = "user.logged_out"
	EventJobCreated     = "job.created"
	EventJobUpdated     = "job.updated"
	EventJobDeleted     = "job.deleted"

	EventJobDetailCreated = "job_detail.created"
	EventJobDetailUpdated = "job_detail.updated"
	EventJobDetailDeleted = "job_detail.deleted"
)

// EventPublisher is implemented by mq.MQ.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Event is the payload published for domain changes. It never carries
// credentials.
type Event struct {
	Type       string    `json:"type"`
	Subject    string    `json:"subject"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Events publishes best-effort domain events. A nil *Events or one without
// a publisher drops everything.
type Events struct {
	publisher EventPublisher
	logger    *slog.Logger
}

func NewEvents(publisher EventPublisher, logger *slog.Logger) *Events {
	if logger == nil {
		logger = slog.Default()
	}
	return &Events{publisher: publisher, logger: logger}
}

func (e *Events) emit(ctx context.Context, channel, eventType, subject string) {
	if e == nil || e.publisher == nil {
		return
	}

	data, err := json.Marshal(Event{Type: eventType, Subject: subject, OccurredAt: time.Now().UTC()})
	if err != nil {
		e.logger.ErrorContext(ctx, "encode event", "type", eventType, "error", err)
		return
	}

	if _, err := e.publisher.Publish(ctx, channel, data, map[string]string{"type": eventType, "content_type": "application/json"}); err != nil {
		e.logger.WarnContext(ctx, "publish event", "channel", channel, "type", eventType, "error", err)
	}
}
