package mq

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher публикует сообщения в очередь через default exchange.
type Publisher struct {
	session *Session
	logger  *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(session *Session, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Publisher{
		session: session,
		logger:  logger,
	}
}

// Publish публикует payload как есть в очередь queue.
// Возвращает сгенерированный message id.
func (p *Publisher) Publish(ctx context.Context, queue string, payload []byte) (string, error) {
	id := uuid.New().String()

	err := p.session.WithChannel(func(ch *amqp.Channel) error {
		return ch.PublishWithContext(
			ctx,
			"",    // default exchange
			queue, // routing key = имя очереди
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				ContentType: "text/plain",
				MessageId:   id,
				Timestamp:   time.Now(),
				Body:        payload,
			},
		)
	})
	if err != nil {
		return "", fmt.Errorf("publish to %s: %w", queue, err)
	}

	p.logger.Debug("published message",
		"queue", queue,
		"message_id", id,
		"size", len(payload),
	)

	return id, nil
}
