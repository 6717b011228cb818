package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var configForce bool

func init() {
	configCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config <path>",
	Short: "Writes the effective config as YAML",
	Long: `Writes the config in effect (defaults, then the config file, then the
environment and flags) to a YAML file that --config can read back.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%v already exists, pass --force to overwrite it", path)
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		slog.Info("wrote config", "path", path)
		return nil
	},
}
