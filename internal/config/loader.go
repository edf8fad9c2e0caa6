package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

// Переменные окружения.
const (
	EnvBrokerURL   = "RABBITMQ_URL"
	EnvBrokerHost  = "DISPATCHER_BROKER_HOST"
	EnvQueue       = "DISPATCHER_QUEUE"
	EnvCommand     = "DISPATCHER_COMMAND"
	EnvMetricsAddr = "DISPATCHER_METRICS_ADDR"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadFile читает YAML-файл поверх Defaults().
// Поля, отсутствующие в файле, сохраняют значения по умолчанию.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(interpolateEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv переопределяет поля конфигурации непустыми переменными окружения.
//
// DISPATCHER_COMMAND разбирается по правилам shell (кавычки, экранирование).
// DISPATCHER_BROKER_HOST без RABBITMQ_URL сбрасывает broker_url из файла,
// иначе хост из окружения был бы проигнорирован.
func ApplyEnv(cfg *Config) error {
	url := os.Getenv(EnvBrokerURL)
	if url != "" {
		cfg.BrokerURL = url
	}
	if v := os.Getenv(EnvBrokerHost); v != "" {
		cfg.BrokerHost = v
		if url == "" {
			cfg.BrokerURL = ""
		}
	}
	if v := os.Getenv(EnvQueue); v != "" {
		cfg.Queue = v
	}
	if v := os.Getenv(EnvCommand); v != "" {
		command, err := shlex.Split(v)
		if err != nil {
			return fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, EnvCommand, err)
		}
		cfg.Command = command
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		cfg.MetricsAddr = v
	}
	return nil
}

// interpolateEnv заменяет ${VAR} значениями переменных окружения.
// Неопределённые переменные остаются как есть.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}
