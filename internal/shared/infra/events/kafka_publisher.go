package events

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
)

// HeaderSubject lleva el subject del mensaje en transportes sin campo propio.
const HeaderSubject = "subject"

// MessageWriter es la parte de *kafka.Writer que usa el publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher publica mensajes de difusión en Kafka. El writer no debe
// tener Topic fijo: cada mensaje lleva el suyo.
type KafkaPublisher struct {
	writer MessageWriter
	log    *zap.Logger
}

func NewKafkaPublisher(writer MessageWriter, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, log: log}
}

func (p *KafkaPublisher) Send(ctx context.Context, msg *sharedBus.TopicMessage) error {
	if msg.Topic == "" {
		return fmt.Errorf("kafka: message %s has no topic", msg.ItemID)
	}

	km := kafka.Message{
		Topic: msg.Topic,
		Key:   []byte(msg.PartitionKey()),
		Value: msg.Payload,
		Headers: []kafka.Header{
			{Key: HeaderSubject, Value: []byte(msg.Subject)},
		},
	}

	if err := p.writer.WriteMessages(ctx, km); err != nil {
		p.log.Error("Error publishing to Kafka",
			zap.String("topic", msg.Topic),
			zap.String("item_id", msg.ItemID),
			zap.Error(err))
		return err
	}

	p.log.Debug("Message published successfully",
		zap.String("topic", msg.Topic),
		zap.String("item_id", msg.ItemID))
	return nil
}

// Verificación estática
var _ sharedBus.Sender[*sharedBus.TopicMessage] = (*KafkaPublisher)(nil)
