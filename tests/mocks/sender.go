package mocks

import (
	"context"

	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
	"github.com/stretchr/testify/mock"
)

// MockSender simula un transporte de un canal (SQS, SNS, Kafka...).
type MockSender[M sharedBus.Keyer] struct {
	mock.Mock
}

func (m *MockSender[M]) Send(ctx context.Context, msg M) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockChannelPublisher simula el publisher de un canal completo.
type MockChannelPublisher[M sharedBus.Keyer] struct {
	mock.Mock
}

func (m *MockChannelPublisher[M]) Publish(ctx context.Context, msgs []M) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

var (
	_ sharedBus.Sender[*sharedBus.TopicMessage] = (*MockSender[*sharedBus.TopicMessage])(nil)
	_ sharedBus.Sender[*sharedBus.QueueMessage] = (*MockSender[*sharedBus.QueueMessage])(nil)
)
