package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/nats-io/nats.go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sharedBus "github.com/davicafu/availability-relay/internal/shared/infra/platform/bus"
)

func topicMessage() *sharedBus.TopicMessage {
	return &sharedBus.TopicMessage{
		ItemID:  "atf-1",
		Channel: "availability-history",
		Topic:   "history",
		Subject: "New availability-history message sent to SNS",
		Payload: []byte(`{"id":"atf-1"}`),
	}
}

// ---------- SQS ----------

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSSender_Send(t *testing.T) {
	client := &fakeSQS{}
	sender := NewSQSSender(client, zap.NewNop())

	err := sender.Send(context.Background(), &sharedBus.QueueMessage{
		ItemID:   "atf-1",
		QueueURL: "https://sqs/emails",
		Body:     "hola",
		Attributes: map[string]string{
			"templateId":  "tpl",
			"messageType": "email",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "https://sqs/emails", aws.ToString(client.input.QueueUrl))
	assert.Equal(t, "hola", aws.ToString(client.input.MessageBody))
	assert.Equal(t, map[string]types.MessageAttributeValue{
		"templateId":  {DataType: aws.String("String"), StringValue: aws.String("tpl")},
		"messageType": {DataType: aws.String("String"), StringValue: aws.String("email")},
	}, client.input.MessageAttributes)
}

func TestSQSSender_Errors(t *testing.T) {
	boom := errors.New("throttled")
	sender := NewSQSSender(&fakeSQS{err: boom}, zap.NewNop())

	err := sender.Send(context.Background(), &sharedBus.QueueMessage{ItemID: "atf-1", QueueURL: "q"})
	assert.ErrorIs(t, err, boom)

	err = sender.Send(context.Background(), &sharedBus.QueueMessage{ItemID: "atf-1"})
	assert.Error(t, err)
}

// ---------- SNS ----------

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSNSPublisher_Send(t *testing.T) {
	client := &fakeSNS{}
	require.NoError(t, NewSNSPublisher(client, zap.NewNop()).Send(context.Background(), topicMessage()))

	assert.Equal(t, "history", aws.ToString(client.input.TopicArn))
	assert.Equal(t, "New availability-history message sent to SNS", aws.ToString(client.input.Subject))
	assert.Equal(t, `{"id":"atf-1"}`, aws.ToString(client.input.Message))

	boom := errors.New("not found")
	assert.ErrorIs(t, NewSNSPublisher(&fakeSNS{err: boom}, zap.NewNop()).Send(context.Background(), topicMessage()), boom)
}

// ---------- Kafka ----------

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestKafkaPublisher_Send(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, NewKafkaPublisher(w, zap.NewNop()).Send(context.Background(), topicMessage()))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "history", w.msgs[0].Topic)
	assert.Equal(t, []byte("atf-1"), w.msgs[0].Key)
	assert.Equal(t, []byte(`{"id":"atf-1"}`), w.msgs[0].Value)
	assert.Equal(t, []kafka.Header{{Key: HeaderSubject, Value: []byte("New availability-history message sent to SNS")}}, w.msgs[0].Headers)

	noTopic := topicMessage()
	noTopic.Topic = ""
	assert.Error(t, NewKafkaPublisher(w, zap.NewNop()).Send(context.Background(), noTopic))
}

// ---------- NATS ----------

type fakeNATS struct {
	connected bool
	msgs      []*nats.Msg
}

func (f *fakeNATS) PublishMsg(m *nats.Msg) error {
	f.msgs = append(f.msgs, m)
	return nil
}

func (f *fakeNATS) IsConnected() bool { return f.connected }

func TestNATSPublisher_Send(t *testing.T) {
	conn := &fakeNATS{connected: true}
	p := NewNATSPublisher(conn, zap.NewNop())

	sender, err := p.SenderFactory()(context.Background())
	require.NoError(t, err)
	require.NoError(t, sender.Send(context.Background(), topicMessage()))

	require.Len(t, conn.msgs, 1)
	assert.Equal(t, "history", conn.msgs[0].Subject)
	assert.Equal(t, "atf-1", conn.msgs[0].Header.Get(NATSHeaderItemID))
	assert.Equal(t, []byte(`{"id":"atf-1"}`), conn.msgs[0].Data)
}

func TestNATSPublisher_DisconnectedFailsChannel(t *testing.T) {
	p := NewNATSPublisher(&fakeNATS{connected: false}, zap.NewNop())

	_, err := p.SenderFactory()(context.Background())
	assert.ErrorIs(t, err, ErrNATSDisconnected)
}

// ---------- In-memory ----------

func TestInMemoryEventBus(t *testing.T) {
	b := NewInMemoryEventBus()
	history := b.Subscribe("history", 1)
	other := b.Subscribe("other", 1)

	require.NoError(t, b.Send(context.Background(), topicMessage()))

	select {
	case msg := <-history:
		assert.Equal(t, "atf-1", msg.ItemID)
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	assert.Len(t, other, 0)

	// Buffer lleno: el envío falla en lugar de bloquear.
	require.NoError(t, b.Send(context.Background(), topicMessage()))
	assert.Error(t, b.Send(context.Background(), topicMessage()))

	b.Close()
	b.Close()
	assert.Error(t, b.Send(context.Background(), topicMessage()))
}
