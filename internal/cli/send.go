package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewSendCmd создаёт команду публикации сообщения в очередь.
//
// clientFn вызывается после парсинга PersistentFlags, queueFn возвращает
// имя очереди из них же.
func NewSendCmd(clientFn func(cmd *cobra.Command) (*Client, error), queueFn func() string, outputFn func() *Output) *cobra.Command {
	var declare, durable bool

	cmd := &cobra.Command{
		Use:   "send PAYLOAD...",
		Short: "Publish a message to the dispatcher queue",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			client, err := clientFn(cmd)
			if err != nil {
				return err
			}
			defer client.Close()

			payload := []byte(strings.Join(args, " "))
			res, err := client.Send(cmd.Context(), queueFn(), payload, declare, durable)
			if err != nil {
				return err
			}

			out.Notice("Message sent: %s", res.MessageID)
			return out.Record([]Field{
				{"MESSAGE_ID", res.MessageID},
				{"QUEUE", res.Queue},
				{"SIZE", strconv.Itoa(res.Size)},
			}, res)
		},
	}

	cmd.Flags().BoolVar(&declare, "declare", false, "Declare the queue before publishing")
	cmd.Flags().BoolVar(&durable, "durable", false, "Declare the queue as durable (with --declare)")

	return cmd
}
