package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics — Prometheus метрики dispatcher'а.
type Metrics struct {
	messagesReceived prometheus.Counter
	commandRuns      *prometheus.CounterVec
	commandDuration  prometheus.Histogram
}

// NewMetrics регистрирует метрики в reg.
// nil — регистрация в prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		messagesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "dispatcher_messages_received_total",
			Help: "Total messages delivered to the dispatcher",
		}),
		commandRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatcher_command_runs_total",
			Help: "Total command runs by outcome (succeeded, failed, spawn_error)",
		}, []string{"outcome"}),
		commandDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dispatcher_command_duration_seconds",
			Help:    "Command run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}

// MessageReceived увеличивает счётчик полученных сообщений.
func (m *Metrics) MessageReceived() {
	if m == nil {
		return
	}
	m.messagesReceived.Inc()
}

// CommandFinished записывает исход и длительность запуска команды.
func (m *Metrics) CommandFinished(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.commandRuns.WithLabelValues(outcome).Inc()
	m.commandDuration.Observe(d.Seconds())
}
