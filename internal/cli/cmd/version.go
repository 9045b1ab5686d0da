package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/pipewin/internal/cli/styles"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Run: func(cmd *cobra.Command, _ []string) {
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), buildInfo.String())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), styles.NewTheme().RenderVersion(buildInfo))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "print a single line")
}
