package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Dispatcher/internal/mq"
	"github.com/shaiso/Dispatcher/internal/telemetry"
)

// State — состояние Dispatcher.
type State int32

// Состояния: Connecting → Consuming → Stopped.
const (
	StateConnecting State = iota
	StateConsuming
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConsuming:
		return "consuming"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Broker — сессия с брокером, которой пользуется Dispatcher.
// Реализуется *mq.Session.
type Broker interface {
	DeclareQueue(name string, durable bool) error
	Deliveries(queue string) (<-chan amqp.Delivery, error)
	Close() error
}

// DialFunc устанавливает сессию с брокером.
type DialFunc func(ctx context.Context, url string, logger *slog.Logger) (Broker, error)

// DialAMQP — DialFunc поверх mq.Dial.
func DialAMQP(ctx context.Context, url string, logger *slog.Logger) (Broker, error) {
	s, err := mq.Dial(ctx, url, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Config — конфигурация Dispatcher.
type Config struct {
	// URL — AMQP URL брокера.
	URL string

	// Queue — имя очереди.
	Queue string

	// Durable — персистентность очереди при объявлении.
	Durable bool

	// Runner — команда, запускаемая на каждое сообщение.
	Runner *Runner

	// Dial — по умолчанию DialAMQP.
	Dial DialFunc

	// Metrics — опционально.
	Metrics *telemetry.Metrics

	// Logger — по умолчанию slog.Default().
	Logger *slog.Logger
}

// Dispatcher подключается к брокеру, потребляет одну очередь
// и на каждое сообщение синхронно запускает команду.
//
// Ошибки подключения и объявления очереди фатальны и возвращаются из Run.
// Ошибки команды только логируются: сообщение уже подтверждено (auto-ack).
type Dispatcher struct {
	url     string
	queue   string
	durable bool
	runner  *Runner
	dial    DialFunc
	metrics *telemetry.Metrics
	logger  *slog.Logger

	state atomic.Int32
}

// New создаёт новый Dispatcher.
func New(cfg Config) *Dispatcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dial := cfg.Dial
	if dial == nil {
		dial = DialAMQP
	}

	runner := cfg.Runner
	if runner == nil {
		runner = &Runner{}
	}

	return &Dispatcher{
		url:     cfg.URL,
		queue:   cfg.Queue,
		durable: cfg.Durable,
		runner:  runner,
		dial:    dial,
		metrics: cfg.Metrics,
		logger:  telemetry.WithQueue(logger, cfg.Queue),
	}
}

// State возвращает текущее состояние.
func (d *Dispatcher) State() State {
	return State(d.state.Load())
}

// Ready сообщает, потребляет ли Dispatcher очередь.
func (d *Dispatcher) Ready() bool {
	return d.State() == StateConsuming
}

// Run подключается, объявляет очередь и блокируется в цикле потребления.
//
// Возвращает nil после отмены ctx (прерывание, в том числе во время
// подключения) и ошибку, оборачивающую
// mq.ErrConnection, mq.ErrDeclaration или mq.ErrConnectionClosed.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.state.Store(int32(StateConnecting))
	defer d.state.Store(int32(StateStopped))

	d.logger.Info("connecting to broker")

	broker, err := d.dial(ctx, d.url, d.logger)
	if err != nil {
		// Прерывание во время подключения — штатное завершение.
		if ctx.Err() != nil {
			d.logger.Info("exiting")
			return nil
		}
		return err
	}
	defer func() {
		if err := broker.Close(); err != nil {
			d.logger.Warn("failed to close broker session", "error", err)
		}
	}()

	if err := broker.DeclareQueue(d.queue, d.durable); err != nil {
		return err
	}

	deliveries, err := broker.Deliveries(d.queue)
	if err != nil {
		return fmt.Errorf("%w: %w", mq.ErrConnection, err)
	}

	consumer := mq.NewConsumer(mq.ConsumerConfig{
		Queue:   d.queue,
		Handler: d,
		Logger:  d.logger,
	})

	d.state.Store(int32(StateConsuming))
	d.logger.Info("waiting for messages, press CTRL+C to exit")

	if err := consumer.Run(ctx, deliveries); err != nil {
		return err
	}

	d.logger.Info("exiting")
	return nil
}

// Handle обрабатывает одно сообщение: логирует payload, запускает команду
// и логирует результат. Реализует mq.Handler.
func (d *Dispatcher) Handle(ctx context.Context, payload []byte) {
	logger := telemetry.WithDeliveryID(d.logger, uuid.New().String())

	d.metrics.MessageReceived()

	logger.Info("received message", "payload", decodePayload(payload))
	logger.Info("executing command", "command", d.runner.String())

	res := d.runner.Run(telemetry.WithLogger(ctx, logger))
	d.metrics.CommandFinished(string(res.Outcome), res.Duration)

	report(logger, res)
}

// report логирует результат запуска.
func report(logger *slog.Logger, res Result) {
	switch res.Outcome {
	case OutcomeSucceeded:
		logger.Info("command executed successfully", "duration", res.Duration)
		logger.Info("command output", "stdout", res.Stdout, "truncated", res.Truncated)
	case OutcomeFailed:
		logger.Error("command execution failed", "exit_code", res.ExitCode, "duration", res.Duration)
		logger.Error("command error output", "stderr", res.Stderr, "truncated", res.Truncated)
	default:
		logger.Error("error executing command", "error", res.Err())
	}
}

// decodePayload декодирует payload как UTF-8 текст;
// невалидные последовательности заменяются на U+FFFD.
func decodePayload(payload []byte) string {
	return strings.ToValidUTF8(string(payload), "�")
}
