package service

import (
	"context"

	"library-management-be/internal/pkg/logger"
	"library-management-be/pkg/events"
	pktNats "library-management-be/pkg/nats"

	"github.com/nats-io/nats.go/jetstream"
)

const auditDurableName = "library-event-audit"

// EventAuditService copies every domain event from the bus into its own log
// file through a durable consumer, so nothing is missed across restarts.
type EventAuditService struct {
	subscriber *pktNats.Subscriber
	logger     logger.ILogger
	consumer   jetstream.ConsumeContext
}

func NewEventAuditService(sub *pktNats.Subscriber, log logger.ILogger) *EventAuditService {
	return &EventAuditService{subscriber: sub, logger: log}
}

func (s *EventAuditService) Start(ctx context.Context) error {
	cc, err := s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", auditDurableName, s.handleEvent)
	if err != nil {
		return err
	}
	s.consumer = cc
	s.logger.Info("EventAudit", "Listening to "+pktNats.SubjectPrefix+">", nil)
	return nil
}

func (s *EventAuditService) handleEvent(ctx context.Context, event events.Event) error {
	s.logger.Info("EventAudit", event.EventType(), map[string]interface{}{
		"occurred_at": event.Timestamp(),
		"payload":     event.Payload(),
	})
	return nil
}

func (s *EventAuditService) Stop() {
	if s.consumer != nil {
		s.consumer.Stop()
	}
}
