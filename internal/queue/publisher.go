package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/blog-system/internal/mail"
)

// Publisher hands emails to RabbitMQ instead of sending them inline. It
// satisfies mail.Sender, so the password reset flow does not know which
// transport is in use.
type Publisher struct {
	url string
	log *slog.Logger
	now func() time.Time
}

func NewPublisher(url string, log *slog.Logger) *Publisher {
	return &Publisher{url: url, log: log, now: time.Now}
}

// Send publishes m to the mail queue as a persistent message. A connection
// is opened per call; reset mails are rare.
func (p *Publisher) Send(ctx context.Context, m mail.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	body, err := json.Marshal(newMailEvent(m, p.now()))
	if err != nil {
		return fmt.Errorf("marshal mail event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Error("rabbitmq dial failed", "err", err)
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("rabbitmq channel open failed", "err", err)
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := declareMailQueue(ch); err != nil {
		p.log.Error("rabbitmq queue declare failed", "err", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", MailQueueName, false, false, pub); err != nil {
		p.log.Error("rabbitmq publish failed", "err", err)
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}

func declareMailQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		MailQueueName, // name
		true,          // durable
		false,         // autoDelete
		false,         // exclusive
		false,         // noWait
		nil,           // args
	)
	if err != nil {
		return q, fmt.Errorf("queue declare: %w", err)
	}
	return q, nil
}
