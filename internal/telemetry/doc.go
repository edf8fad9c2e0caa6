// Package telemetry обеспечивает наблюдаемость dispatcher'а.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// Логи пишутся в stdout, метрики экспортируются на /metrics,
// если задан metrics_addr.
package telemetry
