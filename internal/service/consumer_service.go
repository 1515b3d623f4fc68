// FILE: internal/service/consumer_service.go
package service

import (
	"context"

	"library-management-be/internal/dto"
	"library-management-be/internal/pkg/logger"
	"library-management-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService sends welcome emails for user.registered messages.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	mailer mailer.IEmailService,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		mailer:     mailer,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.UserRegisteredMessage
	if err := codec.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{"error": err})
		// ack so a bad payload is not redelivered
		msg.Ack()
		return
	}

	if !cs.mailer.Enabled() {
		cs.logger.Info("CONSUMER", "SMTP not configured, skipping welcome email", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"email":   payload.Email,
		})
		msg.Ack()
		return
	}

	if err := cs.mailer.SendWelcome(payload.Email, payload.FirstName); err != nil {
		cs.logger.Warn("CONSUMER", "Welcome email failed", map[string]interface{}{
			"user_id": payload.UserId.String(),
			"error":   err.Error(),
		})
		// not retried
		msg.Ack()
		return
	}

	cs.logger.Info("CONSUMER", "Welcome email sent", map[string]interface{}{"user_id": payload.UserId.String()})
	msg.Ack()
}
