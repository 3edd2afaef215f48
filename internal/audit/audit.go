package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const Queue = "audit.log"

// Entry is what lands on the audit queue for every operator action.
type Entry struct {
	ActorID    string    `json:"actorId"`
	Action     string    `json:"action"`
	Subject    string    `json:"subject"`
	Detail     string    `json:"detail"`
	RecordedAt time.Time `json:"recordedAt"`
}

// Publisher records operator actions over RabbitMQ. It is strictly
// best-effort: a failed publish is logged and dropped, never surfaced, so an
// audit outage cannot block or roll back a lifecycle transition.
type Publisher struct {
	ch  *amqp.Channel
	log *logrus.Logger
}

func NewPublisher(conn *amqp.Connection, logger *logrus.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if _, err := ch.QueueDeclare(Queue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", Queue, err)
	}

	return &Publisher{ch: ch, log: logger}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) RecordAction(ctx context.Context, actorID, action, subject, detail string) {
	entry := Entry{
		ActorID:    actorID,
		Action:     action,
		Subject:    subject,
		Detail:     detail,
		RecordedAt: time.Now().UTC(),
	}

	body, err := json.Marshal(entry)
	if err != nil {
		p.log.WithError(err).Warn("audit: marshal entry failed")
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(
		pubCtx,
		"",    // default exchange
		Queue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"actor":   actorID,
			"action":  action,
			"subject": subject,
		}).Warn("audit: publish failed")
	}
}

// Nop discards audit records; used when messaging is disabled and in tests.
type Nop struct{}

func (Nop) RecordAction(ctx context.Context, actorID, action, subject, detail string) {}
