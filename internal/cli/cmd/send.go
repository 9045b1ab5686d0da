package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bnema/pipewin/internal/infrastructure/pipe"
)

var (
	sendNoWait  bool
	sendTimeout time.Duration
	sendPipe    string
)

const defaultSendTimeout = 5 * time.Second

var sendCmd = &cobra.Command{
	Use:   "send <words...>",
	Short: "Write one command line to the pipe",
	Long: `Join the arguments with single spaces and write them as one line to the
command pipe of a running pipewin.

By default send waits for a reader up to --timeout. With --no-wait a missing
reader is reported immediately.

Examples:
  pipewin send open settings
  pipewin send --no-wait open about
  pipewin send --pipe /tmp/ui open /docs`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		path := sendPipe
		if path == "" {
			path = a.Config.Pipe.Path
		}
		line := strings.Join(args, " ")

		if err := sendCommand(a.Ctx(), path, line, !sendNoWait, sendTimeout); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SentMsg(line, path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().BoolVar(&sendNoWait, "no-wait", false, "fail instead of waiting when no reader is attached")
	sendCmd.Flags().DurationVarP(&sendTimeout, "timeout", "t", defaultSendTimeout, "how long to wait for a reader (0 waits forever)")
	sendCmd.Flags().StringVar(&sendPipe, "pipe", "", "command pipe path (overrides the configuration)")
}

func sendCommand(ctx context.Context, path, line string, wait bool, timeout time.Duration) error {
	if wait && timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := pipe.SendLine(ctx, path, line, wait); err != nil {
		return fmt.Errorf("send to %s: %w", path, err)
	}
	return nil
}
