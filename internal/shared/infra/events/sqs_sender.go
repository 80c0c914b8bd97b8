package events

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
)

// SQSAPI es el subconjunto del cliente de SQS que usa el sender.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSender encola mensajes de email en SQS. Los atributos viajan como
// MessageAttributes de tipo String, separados del cuerpo.
type SQSSender struct {
	client SQSAPI
	log    *zap.Logger
}

func NewSQSSender(client SQSAPI, log *zap.Logger) *SQSSender {
	return &SQSSender{client: client, log: log}
}

func (s *SQSSender) Send(ctx context.Context, msg *sharedBus.QueueMessage) error {
	if msg.QueueURL == "" {
		return fmt.Errorf("sqs: message %s has no queue url", msg.ItemID)
	}

	attrs := make(map[string]types.MessageAttributeValue, len(msg.Attributes))
	for k, v := range msg.Attributes {
		attrs[k] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}

	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(msg.QueueURL),
		MessageBody:       aws.String(msg.Body),
		MessageAttributes: attrs,
	})
	if err != nil {
		s.log.Error("Error sending message to SQS",
			zap.String("item_id", msg.ItemID),
			zap.Error(err))
		return err
	}

	s.log.Debug("Message enqueued successfully",
		zap.String("item_id", msg.ItemID),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// Verificación estática
var _ sharedBus.Sender[*sharedBus.QueueMessage] = (*SQSSender)(nil)
