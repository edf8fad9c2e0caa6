package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/shaiso/Dispatcher/internal/config"
)

// ServeFunc запускает сервис с итоговой конфигурацией.
type ServeFunc func(ctx context.Context, cfg *config.Config) error

// NewServeCmd создаёт корневую команду сервиса dispatcher.
//
// Конфигурация собирается так: Defaults() или --config, затем
// переменные окружения, затем явно заданные флаги. Аргументы
// после флагов (обычно после --) заменяют команду.
func NewServeCmd(version string, run ServeFunc) *cobra.Command {
	var (
		configPath string
		flags      config.Config
	)

	cmd := &cobra.Command{
		Use:           "dispatcher [flags] [-- COMMAND [ARGS...]]",
		Short:         "Run a command for every message delivered to a RabbitMQ queue",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, configPath, &flags, args)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.SetInterspersed(false)
	f.StringVar(&configPath, "config", "", "Path to YAML config file")
	f.StringVar(&flags.BrokerHost, "host", config.DefaultBrokerHost, "Broker host")
	f.IntVar(&flags.BrokerPort, "port", 0, "Broker port (default 5672)")
	f.StringVar(&flags.BrokerURL, "url", "", "Full AMQP URL, overrides --host and --port")
	f.StringVar(&flags.Queue, "queue", config.DefaultQueue, "Queue to consume")
	f.BoolVar(&flags.Durable, "durable", false, "Declare the queue as durable")
	f.StringVar(&flags.MetricsAddr, "metrics-addr", "", "Serve /metrics and /healthz on this address")
	f.DurationVar(&flags.CommandTimeout, "command-timeout", 0, "Kill the command after this duration (0 = no limit)")
	f.IntVar(&flags.MaxOutputBytes, "max-output-bytes", 0, "Capture at most this many bytes per stream (0 = no limit)")

	return cmd
}

// resolveConfig применяет источники конфигурации по приоритету и валидирует итог.
func resolveConfig(cmd *cobra.Command, path string, flags *config.Config, args []string) (*config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		var err error
		cfg, err = config.LoadFile(path)
		if err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("host") {
		cfg.BrokerHost = flags.BrokerHost
	}
	if f.Changed("port") {
		cfg.BrokerPort = flags.BrokerPort
	}
	// --host/--port без --url отменяют URL из файла и окружения.
	if (f.Changed("host") || f.Changed("port")) && !f.Changed("url") {
		cfg.BrokerURL = ""
	}
	if f.Changed("url") {
		cfg.BrokerURL = flags.BrokerURL
	}
	if f.Changed("queue") {
		cfg.Queue = flags.Queue
	}
	if f.Changed("durable") {
		cfg.Durable = flags.Durable
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr = flags.MetricsAddr
	}
	if f.Changed("command-timeout") {
		cfg.CommandTimeout = flags.CommandTimeout
	}
	if f.Changed("max-output-bytes") {
		cfg.MaxOutputBytes = flags.MaxOutputBytes
	}
	if len(args) > 0 {
		cfg.Command = args
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
