package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueName is the mail-intent queue consumed by the mail worker.
const QueueName = "emails"

type amqpNotifier struct {
	channel *amqp.Channel
}

// NewAMQP returns a Notifier that publishes mail intents to the emails queue.
func NewAMQP(channel *amqp.Channel) Notifier {
	return &amqpNotifier{channel: channel}
}

func (n *amqpNotifier) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode mail intent: %w", err)
	}
	err = n.channel.PublishWithContext(ctx, "", QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("publish mail intent: %w", err)
	}
	return nil
}
