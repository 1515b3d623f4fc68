package service

import (
	"library-management-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	jsoniter "github.com/json-iterator/go"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

type IPublisherService interface {
	PublishUserRegistered(msg dto.UserRegisteredMessage) error
}

type publisherService struct {
	topicName string
	publisher message.Publisher
}

func NewPublisherService(topicName string, publisher message.Publisher) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
	}
}

func (ps *publisherService) PublishUserRegistered(msg dto.UserRegisteredMessage) error {
	payload, err := codec.Marshal(msg)
	if err != nil {
		return err
	}
	return ps.publisher.Publish(ps.topicName, message.NewMessage(watermill.NewUUID(), payload))
}
