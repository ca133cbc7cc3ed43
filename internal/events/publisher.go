// AngelaMos | 2026
// publisher.go

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/go-accounts/internal/config"
	"github.com/carterperez-dev/templates/go-accounts/internal/core"
)

const (
	UserCreated          = "user.created"
	UserUpdated          = "user.updated"
	UserDeleted          = "user.deleted"
	UserPasswordChanged  = "user.password_changed"
	UserRoleAssigned     = "user.role_assigned"
	UserRoleRemoved      = "user.role_removed"
	UserAddressAdded     = "user.address_added"
	UserPhoneAdded       = "user.phone_added"
	UserCompleted        = "user.completed"
	UserPartiallyCreated = "user.partially_created"
)

type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Actor      string    `json:"actor"`
	Data       any       `json:"data"`
}

type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
	Close() error
}

// Recorder counts published and dropped events.
type Recorder interface {
	EventEmitted(ctx context.Context, eventType string, ok bool)
}

func NewEvent(ctx context.Context, eventType string, data any) Event {
	return Event{
		ID:         uuid.New().String(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Actor:      core.ActorFrom(ctx),
		Data:       data,
	}
}

func (e Event) Marshal() ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", e.Type, err)
	}
	return b, nil
}

// New builds the publisher selected by cfg.Driver.
func New(
	cfg config.EventsConfig,
	redis *core.Redis,
	logger *slog.Logger,
) (Publisher, error) {
	switch cfg.Driver {
	case config.EventsDriverRedis:
		return NewStreamPublisher(redis.Client, cfg.Stream), nil
	case config.EventsDriverAMQP:
		return NewAMQPPublisher(cfg.AMQPURL, cfg.Queue)
	default:
		return NewLogPublisher(logger), nil
	}
}

// Emitter publishes events without ever failing the caller.
type Emitter struct {
	publisher Publisher
	recorder  Recorder
}

func NewEmitter(publisher Publisher, recorder Recorder) *Emitter {
	return &Emitter{publisher: publisher, recorder: recorder}
}

func (e *Emitter) Emit(ctx context.Context, eventType string, data any) {
	if e == nil || e.publisher == nil {
		return
	}

	err := e.publisher.Publish(ctx, eventType, data)

	if e.recorder != nil {
		e.recorder.EventEmitted(ctx, eventType, err == nil)
	}

	if err != nil {
		slog.WarnContext(ctx, "event dropped",
			"type", eventType,
			"error", err,
		)
		core.AddSpanEvent(ctx, "event.dropped",
			attribute.String("event.type", eventType),
			attribute.String("error", err.Error()),
		)
	}
}

type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, eventType string, data any) error {
	event := NewEvent(ctx, eventType, data)
	p.logger.InfoContext(ctx, "account event",
		"event_id", event.ID,
		"type", event.Type,
		"actor", event.Actor,
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
