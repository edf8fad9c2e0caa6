package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultPort — стандартный порт AMQP.
const DefaultPort = 5672

// defaultDialTimeout ограничивает установку TCP-соединения.
const defaultDialTimeout = 30 * time.Second

// Session — владеющая обёртка над AMQP соединением и его каналом.
//
// Особенности:
//   - Одно соединение и один канал на процесс
//   - Без автоматического reconnect: разрыв закрывает поток доставок
//   - Идемпотентный Close
type Session struct {
	logger *slog.Logger

	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

// URL собирает AMQP URL с гостевыми учётными данными брокера, без TLS.
// port <= 0 — порт по умолчанию.
func URL(host string, port int) string {
	if port <= 0 {
		port = DefaultPort
	}
	return "amqp://guest:guest@" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}

// Dial устанавливает соединение с брокером и открывает канал.
// Любая ошибка оборачивается в ErrConnection.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cfg := amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial: func(network, addr string) (net.Conn, error) {
			d := net.Dialer{Timeout: defaultDialTimeout}
			return d.DialContext(ctx, network, addr)
		},
	}

	conn, err := amqp.DialConfig(url, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: dial amqp: %w", ErrConnection, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open channel: %w", ErrConnection, err)
	}

	s := &Session{
		logger:  logger,
		conn:    conn,
		channel: ch,
	}

	logger.Info("connected to RabbitMQ")

	return s, nil
}

// Channel возвращает AMQP канал сессии или nil после Close.
func (s *Session) Channel() *amqp.Channel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channel
}

// WithChannel выполняет функцию с каналом сессии.
func (s *Session) WithChannel(fn func(ch *amqp.Channel) error) error {
	ch := s.Channel()
	if ch == nil {
		return ErrNoChannel
	}

	return fn(ch)
}

// Close закрывает канал и соединение.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error

	if s.channel != nil {
		if err := s.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
		s.channel = nil
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	s.logger.Info("connection closed")
	return nil
}
