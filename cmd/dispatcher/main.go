// Dispatcher — запускает внешнюю команду на каждое сообщение из очереди RabbitMQ.
//
// Dispatcher:
//   - Подключается к брокеру и объявляет одну очередь
//   - Потребляет сообщения по одному, в режиме auto-ack
//   - На каждое сообщение синхронно запускает настроенную команду
//   - Логирует payload, исход и захваченный вывод команды
//
// Недоступный брокер или конфликт объявления очереди — выход с кодом 1.
// SIGINT/SIGTERM — штатное завершение с кодом 0.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaiso/Dispatcher/internal/cli"
	"github.com/shaiso/Dispatcher/internal/config"
	"github.com/shaiso/Dispatcher/internal/dispatch"
	"github.com/shaiso/Dispatcher/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := cli.NewServeCmd(version, serve)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}

// serve запускает dispatcher и, если задан metrics_addr, HTTP с /healthz и /metrics.
func serve(ctx context.Context, cfg *config.Config) error {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting dispatcher",
		"version", version,
		"queue", cfg.Queue,
		"command", cfg.Command,
	)

	d := dispatch.New(dispatch.Config{
		URL:     cfg.URL(),
		Queue:   cfg.Queue,
		Durable: cfg.Durable,
		Runner: &dispatch.Runner{
			Command:        cfg.Command,
			Timeout:        cfg.CommandTimeout,
			MaxOutputBytes: cfg.MaxOutputBytes,
		},
		Metrics: telemetry.NewMetrics(nil),
		Logger:  logger,
	})

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           telemetry.NewMux(d.Ready, nil),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			logger.Info("listening", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	if err := d.Run(ctx); err != nil {
		logger.Error("dispatcher stopped", "error", err)
		return err
	}

	logger.Info("dispatcher stopped")
	return nil
}
