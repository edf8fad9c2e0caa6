package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Dispatcher/internal/mq"
)

// SendResult — результат публикации.
type SendResult struct {
	MessageID string    `json:"message_id"`
	Queue     string    `json:"queue"`
	Size      int       `json:"size"`
	SentAt    time.Time `json:"sent_at"`
}

// Publisher — то, что нужно команде send от брокера.
type Publisher interface {
	DeclareQueue(name string, durable bool) error
	Publish(ctx context.Context, queue string, payload []byte) (string, error)
	Close() error
}

// Client публикует сообщения в очередь dispatcher'а.
type Client struct {
	pub Publisher
}

// NewClient создаёт Client поверх Publisher.
func NewClient(pub Publisher) *Client {
	return &Client{pub: pub}
}

// DialClient подключается к брокеру по url.
func DialClient(ctx context.Context, url string, logger *slog.Logger) (*Client, error) {
	session, err := mq.Dial(ctx, url, logger)
	if err != nil {
		return nil, err
	}

	return NewClient(&sessionPublisher{
		Session:   session,
		publisher: mq.NewPublisher(session, logger),
	}), nil
}

// Send публикует payload; при declare=true сначала объявляет очередь
// с теми же свойствами, что и consumer.
func (c *Client) Send(ctx context.Context, queue string, payload []byte, declare, durable bool) (*SendResult, error) {
	if declare {
		if err := c.pub.DeclareQueue(queue, durable); err != nil {
			return nil, err
		}
	}

	id, err := c.pub.Publish(ctx, queue, payload)
	if err != nil {
		return nil, err
	}

	return &SendResult{
		MessageID: id,
		Queue:     queue,
		Size:      len(payload),
		SentAt:    time.Now(),
	}, nil
}

// Close закрывает соединение с брокером.
func (c *Client) Close() error {
	return c.pub.Close()
}

// sessionPublisher объединяет mq.Session и mq.Publisher.
type sessionPublisher struct {
	*mq.Session
	publisher *mq.Publisher
}

func (p *sessionPublisher) Publish(ctx context.Context, queue string, payload []byte) (string, error) {
	return p.publisher.Publish(ctx, queue, payload)
}
