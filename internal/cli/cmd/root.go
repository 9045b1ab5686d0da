// Package cmd provides Cobra CLI commands for pipewin.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/pipewin/internal/cli"
	"github.com/bnema/pipewin/internal/domain/build"
)

var (
	app        *cli.App
	buildInfo  build.Info
	configFile string
	rootCmd    = &cobra.Command{
		Use:   "pipewin",
		Short: "Open and drive WebKit windows from lines written to a named pipe",
		Long: `pipewin - a pipe-driven window orchestrator.

pipewin reads command lines from a FIFO, hands each line to a helper program
and opens (or reuses) the WebKit window the helper names. The helper's output
is delivered to the window once its content reports it is mounted.

Use 'pipewin run' to start the orchestrator, and 'pipewin send' to write
commands to a running instance.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(configFile)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// runCmd is a placeholder for help - actual execution is in main.go
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the orchestrator",
	Long: `Start the GTK application and listen on the command pipe.

The pipe is created when missing. Only one instance may read a given pipe.
On exit, "quit" is written to the control path.

Examples:
  pipewin run                          # Use the configured pipe
  PIPEWIN_PIPE_PATH=/tmp/ui pipewin run`,
	Run: func(_ *cobra.Command, _ []string) {
		// This is handled by main.go before cobra runs
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/pipewin/config.toml)")
	rootCmd.AddCommand(runCmd)
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	a := GetApp()
	if a == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return a, nil
}
