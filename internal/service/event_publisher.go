package service

import (
	"context"
	"time"

	"library-management-be/internal/pkg/logger"
	pkgEvents "library-management-be/pkg/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventBus is satisfied by *nats.Publisher.
type EventBus interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

// IEventPublisher emits domain events after a transaction has committed.
// Failures are logged and never surface to the caller.
type IEventPublisher interface {
	PublishBookBorrowed(ctx context.Context, isbn string, userId uuid.UUID, dueDate time.Time, at time.Time)
	PublishBookReturned(ctx context.Context, isbn string, userId uuid.UUID, at time.Time)
	PublishFeePaid(ctx context.Context, isbn string, userId uuid.UUID, owed, tendered decimal.Decimal, at time.Time)
}

type eventPublisher struct {
	bus    EventBus
	logger logger.ILogger
}

// NewEventPublisher accepts a nil bus, in which case events are dropped.
func NewEventPublisher(bus EventBus, logger logger.ILogger) IEventPublisher {
	return &eventPublisher{bus: bus, logger: logger}
}

func (p *eventPublisher) publish(ctx context.Context, evt pkgEvents.BaseEvent) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, evt); err != nil {
		p.logger.Warn("EVENTS", "Failed to publish "+evt.Type+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *eventPublisher) PublishBookBorrowed(ctx context.Context, isbn string, userId uuid.UUID, dueDate time.Time, at time.Time) {
	p.publish(ctx, pkgEvents.BaseEvent{
		Type: pkgEvents.TypeBookBorrowed,
		Data: map[string]interface{}{
			"isbn":     isbn,
			"user_id":  userId.String(),
			"due_date": dueDate,
		},
		OccurredAt: at,
	})
}

func (p *eventPublisher) PublishBookReturned(ctx context.Context, isbn string, userId uuid.UUID, at time.Time) {
	p.publish(ctx, pkgEvents.BaseEvent{
		Type: pkgEvents.TypeBookReturned,
		Data: map[string]interface{}{
			"isbn":    isbn,
			"user_id": userId.String(),
		},
		OccurredAt: at,
	})
}

func (p *eventPublisher) PublishFeePaid(ctx context.Context, isbn string, userId uuid.UUID, owed, tendered decimal.Decimal, at time.Time) {
	p.publish(ctx, pkgEvents.BaseEvent{
		Type: pkgEvents.TypeFeePaid,
		Data: map[string]interface{}{
			"isbn":            isbn,
			"user_id":         userId.String(),
			"amount_owed":     owed.StringFixed(2),
			"amount_tendered": tendered.StringFixed(2),
			"returned":        true,
		},
		OccurredAt: at,
	})
}
