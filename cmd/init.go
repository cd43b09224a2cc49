package cmd

import (
	"fmt"

	"github.com/gnolang/fol/batch"
	"github.com/spf13/cobra"
)

// initCmd: fol init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = batch.DefaultConfigFile
		}
		if err := batch.WriteConfig(path, batch.DefaultConfig()); err != nil {
			return fmt.Errorf("error initializing config file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", path)
		return nil
	},
}
