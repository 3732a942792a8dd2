package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config [path]",
	Short: "Write the effective configuration to a file",
	Long: `Writes the configuration currently in effect (defaults, config file and
flags merged) to path, or to the user config directory when no path is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) > 0 {
			path = args[0]
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
		} else {
			var err error
			if path, err = cfg.Save(); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initConfigCmd)
}
