package lambda

import (
	"context"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/availability/application"
	"github.com/davicafu/availability-relay/internal/availability/domain"
	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
)

// Handler adapta las invocaciones de Lambda con eventos de DynamoDB Streams.
// Devolver error hace que Lambda reentregue el lote completo.
type Handler struct {
	processor domain.BatchProcessor
	log       *zap.Logger
}

func NewHandler(processor domain.BatchProcessor, log *zap.Logger) *Handler {
	return &Handler{processor: processor, log: log}
}

func (h *Handler) Handle(ctx context.Context, evt awsevents.DynamoDBEvent) error {
	invocationID := uuid.NewString()
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		invocationID = lc.AwsRequestID
	}
	ctx = application.WithInvocationID(ctx, invocationID)

	log := h.log.With(zap.String("aws_request_id", invocationID))
	log.Info("📥 Lambda disparada", zap.Int("records", len(evt.Records)))

	if err := h.processor.ProcessBatch(ctx, sharedEvents.FromDynamoDBEvent(evt)); err != nil {
		log.Error("❌ Invocación fallida, el lote se reintentará", zap.Error(err))
		return err
	}

	log.Info("✅ Lambda completada")
	return nil
}
