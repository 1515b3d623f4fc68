package service

import (
	"context"
	"testing"
	"time"

	"library-management-be/internal/dto"
	"library-management-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type welcomeMailer struct {
	sent chan string
}

func (m *welcomeMailer) SendWelcome(toEmail, name string) error {
	m.sent <- toEmail
	return nil
}

func (m *welcomeMailer) Enabled() bool { return true }

func TestConsumerService_SendsWelcomeEmail(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	mailer := &welcomeMailer{sent: make(chan string, 1)}
	consumer := NewConsumerService(bus, "user.registered", mailer, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("user.registered", bus)
	require.NoError(t, publisher.PublishUserRegistered(dto.UserRegisteredMessage{
		UserId:    uuid.New(),
		Email:     "ada@example.com",
		FirstName: "Ada",
		Source:    "register",
	}))

	select {
	case to := <-mailer.sent:
		assert.Equal(t, "ada@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not sent")
	}
}
