package mq

import (
	"context"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler обрабатывает одно доставленное сообщение.
//
// Ошибок не возвращает: сообщение уже подтверждено брокеру (auto-ack),
// поэтому о результатах обработки handler сообщает только логами.
type Handler interface {
	Handle(ctx context.Context, payload []byte)
}

// HandlerFunc — адаптер функции к Handler.
type HandlerFunc func(ctx context.Context, payload []byte)

// Handle вызывает f(ctx, payload).
func (f HandlerFunc) Handle(ctx context.Context, payload []byte) {
	f(ctx, payload)
}

// Deliveries начинает потребление очереди в режиме auto-ack.
// Брокер считает сообщение доставленным в момент передачи consumer'у,
// поэтому сбой обработки не приводит к повторной доставке.
func (s *Session) Deliveries(queue string) (<-chan amqp.Delivery, error) {
	var deliveries <-chan amqp.Delivery

	err := s.WithChannel(func(ch *amqp.Channel) error {
		var err error
		deliveries, err = ch.Consume(
			queue, // queue
			"",    // consumer tag (auto-generated)
			true,  // auto-ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,   // args
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("consume %s: %w", queue, err)
	}

	return deliveries, nil
}

// Consumer — синхронный цикл потребления.
//
// Следующая доставка читается только после возврата handler'а,
// поэтому одновременно обрабатывается не больше одного сообщения,
// в порядке доставки брокером.
type Consumer struct {
	logger  *slog.Logger
	queue   string
	handler Handler
}

// ConsumerConfig — конфигурация consumer.
type ConsumerConfig struct {
	// Queue — имя очереди (только для логов).
	Queue string

	// Handler — обработчик сообщений.
	Handler Handler

	// Logger — логгер (по умолчанию slog.Default()).
	Logger *slog.Logger
}

// NewConsumer создаёт новый Consumer.
func NewConsumer(cfg ConsumerConfig) *Consumer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Consumer{
		logger:  logger,
		queue:   cfg.Queue,
		handler: cfg.Handler,
	}
}

// Run блокируется, вызывая handler для каждой доставки.
//
// Возвращает nil при отмене ctx и ErrConnectionClosed,
// если брокер закрыл поток доставок.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	c.logger.Info("consumer started", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopped", "queue", c.queue)
			return nil

		case d, ok := <-deliveries:
			// select выбирает случайно, если готовы оба случая.
			if ctx.Err() != nil {
				c.logger.Info("consumer stopped", "queue", c.queue)
				return nil
			}
			if !ok {
				return fmt.Errorf("%w: deliveries channel closed for queue %s", ErrConnectionClosed, c.queue)
			}

			c.handler.Handle(ctx, d.Body)
		}
	}
}
