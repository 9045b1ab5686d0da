package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bnema/pipewin/internal/infrastructure/config"
)

var (
	schemaHelper bool
	schemaWrite  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show resolved file locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}

		configPath := a.ConfigFile
		if configPath == "" {
			if configPath, err = config.GetConfigFile(); err != nil {
				return err
			}
		}
		journal := a.Config.Journal.Path
		if !a.Config.Journal.Enabled {
			journal = "(disabled)"
		}

		fmt.Fprint(cmd.OutOrStdout(), a.Theme.RenderPaths([][2]string{
			{"config", configPath},
			{"pipe", a.Config.Pipe.Path},
			{"control", a.Config.Pipe.ControlPath},
			{"journal", journal},
			{"logs", a.Config.Logging.LogDir},
		}))
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the configuration",
	Long: `Print the JSON schema of the configuration file, or with --helper the schema
of the JSON document a helper prints on stdout.

With --write the configuration schema is saved next to the config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if schemaWrite {
			a, err := requireApp()
			if err != nil {
				return err
			}
			dir := ""
			if a.ConfigFile != "" {
				dir = filepath.Dir(a.ConfigFile)
			} else if dir, err = config.GetConfigDir(); err != nil {
				return err
			}
			path, err := config.GenerateSchemaFile(dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SuccessMsg("schema written to "+path))
			return nil
		}

		schema := config.ConfigSchema()
		if schemaHelper {
			schema = config.HelperResponseSchema()
		}
		data, err := config.MarshalSchema(schema)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configSchemaCmd)

	configSchemaCmd.Flags().BoolVar(&schemaHelper, "helper", false, "print the helper response schema instead")
	configSchemaCmd.Flags().BoolVar(&schemaWrite, "write", false, "write config.schema.json next to the config file")
	configSchemaCmd.MarkFlagsMutuallyExclusive("helper", "write")
}
