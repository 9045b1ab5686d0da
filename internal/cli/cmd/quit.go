package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/pipewin/internal/application/usecase"
	"github.com/bnema/pipewin/internal/infrastructure/pipe"
)

var quitCmd = &cobra.Command{
	Use:   "quit",
	Short: "Write the shutdown sentinel to the control path",
	Long: `Write "quit" to the control path, exactly as pipewin does when it exits.

Useful to exercise whatever process supervises the control path.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		path := a.Config.Pipe.ControlPath
		if err := pipe.NewControlWriter(path).Send(a.Ctx(), usecase.ShutdownSentinel); err != nil {
			return fmt.Errorf("notify %s: %w", path, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SentMsg(usecase.ShutdownSentinel, path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(quitCmd)
}
