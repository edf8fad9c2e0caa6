// Dispatcher CLI — публикует сообщения в очередь dispatcher'а.
//
// Использование:
//
//	dispatcher-cli [--host HOST | --url URL] [--queue QUEUE] [--json] send [--declare] [--durable] PAYLOAD...
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Dispatcher/internal/cli"
	"github.com/shaiso/Dispatcher/internal/config"
	"github.com/shaiso/Dispatcher/internal/mq"
	"github.com/shaiso/Dispatcher/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var host, url, queue string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "dispatcher-cli",
		Short:         "Dispatcher CLI — publish messages to the dispatcher queue",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&host, "host", config.DefaultBrokerHost, "Broker host")
	rootCmd.PersistentFlags().StringVar(&url, "url", os.Getenv(config.EnvBrokerURL), "Full AMQP URL, overrides --host")
	rootCmd.PersistentFlags().StringVar(&queue, "queue", config.DefaultQueue, "Target queue")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func(cmd *cobra.Command) (*cli.Client, error) {
		target := url
		if target == "" {
			target = mq.URL(host, mq.DefaultPort)
		}
		logger := telemetry.NewLogger(os.Stderr, os.Getenv("LOG_FORMAT"), telemetry.LogLevel())
		return cli.DialClient(cmd.Context(), target, logger)
	}
	queueFn := func() string { return queue }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewSendCmd(clientFn, queueFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
