package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/frescolabs/storefront-api/internal/notify"
)

const (
	dlxExchange  = "emails.dlx"
	dlqQueueName = "emails.dlq"
)

// MailWorker consumes mail intents from the emails queue and "delivers" them
// by rendering the message to the log. No real provider is attached; swapping
// one in only touches this worker.
type MailWorker struct {
	channel       *amqp.Channel
	log           *slog.Logger
	verifyBaseURL string
	done          chan struct{}
}

func NewMailWorker(ch *amqp.Channel, log *slog.Logger, verifyBaseURL string) *MailWorker {
	return &MailWorker{
		channel:       ch,
		log:           log,
		verifyBaseURL: verifyBaseURL,
		done:          make(chan struct{}),
	}
}

// SetupRabbitMQ declares the emails queue with its DLX/DLQ bindings.
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, notify.QueueName, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}
	if _, err := ch.QueueDeclare(notify.QueueName, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": notify.QueueName,
	}); err != nil {
		return fmt.Errorf("declare emails queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

func (w *MailWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(notify.QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("mail worker started")
	return nil
}

func (w *MailWorker) Stop() { close(w.done) }

func (w *MailWorker) processMessage(msg amqp.Delivery) {
	var intent notify.Message
	if err := json.Unmarshal(msg.Body, &intent); err != nil {
		w.log.Error("unmarshal mail intent", "error", err)
		_ = msg.Nack(false, false) // to DLQ
		return
	}

	content, err := w.render(intent)
	if err != nil {
		w.log.Error("render mail", "kind", intent.Kind, "recipient", intent.Recipient, "error", err)
		_ = msg.Nack(false, false)
		return
	}

	w.log.Info("mail delivered",
		"kind", intent.Kind,
		"recipient", intent.Recipient,
		"content", content,
	)
	_ = msg.Ack(false)
}
