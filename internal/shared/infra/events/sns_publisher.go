package events

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
)

// SNSAPI es el subconjunto del cliente de SNS que usa el publisher.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSPublisher publica mensajes de difusión en topics de SNS.
type SNSPublisher struct {
	client SNSAPI
	log    *zap.Logger
}

func NewSNSPublisher(client SNSAPI, log *zap.Logger) *SNSPublisher {
	return &SNSPublisher{client: client, log: log}
}

func (p *SNSPublisher) Send(ctx context.Context, msg *sharedBus.TopicMessage) error {
	if msg.Topic == "" {
		return fmt.Errorf("sns: message %s has no topic", msg.ItemID)
	}

	out, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(msg.Topic),
		Subject:  aws.String(msg.Subject),
		Message:  aws.String(string(msg.Payload)),
	})
	if err != nil {
		p.log.Error("Error publishing to SNS",
			zap.String("topic", msg.Topic),
			zap.String("item_id", msg.ItemID),
			zap.Error(err))
		return err
	}

	p.log.Debug("Message published successfully",
		zap.String("topic", msg.Topic),
		zap.String("item_id", msg.ItemID),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}

// Verificación estática
var _ sharedBus.Sender[*sharedBus.TopicMessage] = (*SNSPublisher)(nil)
