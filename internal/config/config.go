// Package config загружает конфигурацию dispatcher'а.
//
// Источники в порядке возрастания приоритета:
//   - Defaults()
//   - YAML-файл (LoadFile), с подстановкой ${VAR}
//   - переменные окружения (ApplyEnv)
//   - флаги командной строки (применяются в cmd/dispatcher)
package config

import (
	"fmt"
	"time"

	"github.com/shaiso/Dispatcher/internal/mq"
)

// Значения по умолчанию.
const (
	DefaultBrokerHost = "localhost"
	DefaultQueue      = "update_queue"
)

// DefaultCommand — команда, запускаемая на каждое сообщение по умолчанию.
var DefaultCommand = []string{"python3", "test_cnx.py"}

// Config — конфигурация dispatcher'а.
type Config struct {
	// BrokerHost — адрес брокера; порт по умолчанию, гостевые учётные данные.
	BrokerHost string `yaml:"broker_host"`

	// BrokerPort — порт брокера (default: 5672).
	BrokerPort int `yaml:"broker_port"`

	// BrokerURL — полный AMQP URL; если задан, BrokerHost и BrokerPort игнорируются.
	BrokerURL string `yaml:"broker_url"`

	// Queue — имя очереди; должно совпадать с именем у producer'а.
	Queue string `yaml:"queue"`

	// Durable — персистентность очереди при объявлении (default: false).
	Durable bool `yaml:"durable"`

	// Command — исполняемый файл и аргументы; payload в них не передаётся.
	Command []string `yaml:"command"`

	// CommandTimeout — ограничение времени выполнения команды. 0 — без ограничения.
	CommandTimeout time.Duration `yaml:"command_timeout"`

	// MaxOutputBytes — ограничение захвата stdout/stderr на поток. 0 — без ограничения.
	MaxOutputBytes int `yaml:"max_output_bytes"`

	// MetricsAddr — адрес HTTP для /metrics и /healthz. Пусто — сервер не запускается.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Defaults возвращает конфигурацию по умолчанию.
func Defaults() *Config {
	return &Config{
		BrokerHost: DefaultBrokerHost,
		BrokerPort: mq.DefaultPort,
		Queue:      DefaultQueue,
		Durable:    false,
		Command:    append([]string(nil), DefaultCommand...),
	}
}

// URL возвращает AMQP URL брокера.
func (c *Config) URL() string {
	if c.BrokerURL != "" {
		return c.BrokerURL
	}
	return mq.URL(c.BrokerHost, c.BrokerPort)
}

// Validate проверяет конфигурацию.
func (c *Config) Validate() error {
	if c.BrokerURL == "" && c.BrokerHost == "" {
		return fmt.Errorf("%w: broker host is required", ErrInvalidConfig)
	}
	if c.BrokerPort < 0 || c.BrokerPort > 65535 {
		return fmt.Errorf("%w: broker port %d out of range", ErrInvalidConfig, c.BrokerPort)
	}
	if c.Queue == "" {
		return fmt.Errorf("%w: queue name is required", ErrInvalidConfig)
	}
	if len(c.Command) == 0 || c.Command[0] == "" {
		return fmt.Errorf("%w: command is required", ErrInvalidConfig)
	}
	if c.CommandTimeout < 0 {
		return fmt.Errorf("%w: command timeout must not be negative", ErrInvalidConfig)
	}
	if c.MaxOutputBytes < 0 {
		return fmt.Errorf("%w: max output bytes must not be negative", ErrInvalidConfig)
	}
	return nil
}
