package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}

	for value, want := range tests {
		t.Setenv("LOG_LEVEL", value)
		if got := LogLevel(); got != want {
			t.Errorf("LOG_LEVEL=%q: expected %v, got %v", value, want, got)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := WithDeliveryID(WithQueue(NewLogger(&buf, "json", slog.LevelInfo), "update_queue"), "abc")

	logger.Info("received message", "payload", "update available")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON record: %v", err)
	}
	if record["msg"] != "received message" {
		t.Errorf("unexpected msg: %v", record["msg"])
	}
	if record["queue"] != "update_queue" || record["delivery_id"] != "abc" {
		t.Errorf("expected queue and delivery_id attrs, got %v", record)
	}
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "text", slog.LevelInfo).Info("exiting")

	if !strings.Contains(buf.String(), "msg=exiting") {
		t.Errorf("expected text record, got %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Error("expected default logger without value in context")
	}

	logger := NewLogger(&bytes.Buffer{}, "json", slog.LevelInfo)
	ctx := WithLogger(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("expected logger from context")
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.MessageReceived()
	m.MessageReceived()
	m.CommandFinished("succeeded", 20*time.Millisecond)
	m.CommandFinished("failed", time.Second)

	if got := testutil.ToFloat64(m.messagesReceived); got != 2 {
		t.Errorf("expected 2 messages, got %v", got)
	}
	if got := testutil.ToFloat64(m.commandRuns.WithLabelValues("succeeded")); got != 1 {
		t.Errorf("expected 1 succeeded run, got %v", got)
	}
	if got := testutil.CollectAndCount(m.commandDuration); got != 1 {
		t.Errorf("expected 1 histogram series, got %d", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.MessageReceived()
	m.CommandFinished("succeeded", time.Second)
}
