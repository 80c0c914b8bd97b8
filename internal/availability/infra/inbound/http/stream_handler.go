package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/availability-relay/internal/availability/application"
	"github.com/davicafu/availability-relay/internal/availability/domain"
	sharedEvents "github.com/davicafu/availability-relay/internal/shared/events"
	sharedUtils "github.com/davicafu/availability-relay/internal/shared/infra/utils"
	"github.com/davicafu/availability-relay/pkg/utils"
)

// HeaderRequestID permite al llamante fijar el id de la invocación.
const HeaderRequestID = "X-Request-Id"

// StreamHandler recibe lotes de DynamoDB Streams por HTTP.
type StreamHandler struct {
	processor domain.BatchProcessor
	log       *zap.Logger
}

func NewStreamHandler(processor domain.BatchProcessor, log *zap.Logger) *StreamHandler {
	return &StreamHandler{processor: processor, log: log}
}

// ProcessBatch endpoint POST /v1/stream/batches
func (h *StreamHandler) ProcessBatch(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.SendBadRequest(c, "could not read request body")
		return
	}

	batch, err := sharedEvents.ParseDynamoDBEvent(body)
	if err != nil {
		utils.SendBadRequest(c, err.Error())
		return
	}

	invocationID := sharedUtils.FirstNonZero(c.GetHeader(HeaderRequestID), uuid.NewString())
	ctx := application.WithInvocationID(c.Request.Context(), invocationID)

	if err := h.processor.ProcessBatch(ctx, batch); err != nil {
		h.log.Error("❌ Lote HTTP fallido", zap.String("invocation_id", invocationID), zap.Error(err))
		utils.SendInvocationFailed(c, invocationID, err.Error())
		return
	}

	utils.SendSuccess(c, http.StatusAccepted, gin.H{
		"invocation_id": invocationID,
		"records":       len(batch),
	})
}
