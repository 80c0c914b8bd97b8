package events

import (
	"context"
	"fmt"
	"time"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/availability/application"
	"github.com/davicafu/availability-relay/internal/availability/domain"
	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
	sharedUtils "github.com/davicafu/availability-relay/internal/shared/infra/utils"
)

// StreamReader es la parte de *kafka.Reader que usa el consumidor.
type StreamReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
}

// RetryPolicy controla los reintentos de un lote antes de darlo por perdido.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// StreamConsumer lee lotes de DynamoDB Streams reenviados a Kafka (un mensaje
// por lote) y los procesa. El offset se confirma después de procesar o de
// agotar los reintentos, nunca antes.
type StreamConsumer struct {
	reader    StreamReader
	processor domain.BatchProcessor
	retry     RetryPolicy
	log       *zap.Logger
}

func NewStreamConsumer(reader StreamReader, processor domain.BatchProcessor, retry RetryPolicy, log *zap.Logger) *StreamConsumer {
	return &StreamConsumer{
		reader:    reader,
		processor: processor,
		retry:     retry,
		log:       log,
	}
}

// Run consume hasta que se cancela el contexto.
func (c *StreamConsumer) Run(ctx context.Context) {
	cfg := c.reader.Config()
	c.log.Info("🎧 Iniciando consumidor del stream...",
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("Consumidor del stream detenido.", zap.String("topic", cfg.Topic))
				return
			}
			c.log.Error("Error al leer mensaje de Kafka", zap.Error(err))
			continue
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.Error("Error al confirmar offset",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}
	}
}

func (c *StreamConsumer) handle(ctx context.Context, msg kafka.Message) {
	log := c.log.With(
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
	)

	sharedUtils.UnmarshalAndHandle(log, msg.Value, func(evt awsevents.DynamoDBEvent) {
		batch := sharedEvents.FromDynamoDBEvent(evt)
		ictx := application.WithInvocationID(ctx, fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset))

		err := sharedUtils.Retry(ctx, c.retry.Attempts, c.retry.Delay, func() error {
			return c.processor.ProcessBatch(ictx, batch)
		})
		if err != nil {
			log.Error("❌ Lote descartado tras agotar los reintentos",
				zap.Int("records", len(batch)),
				zap.Error(err))
		}
	})
}
