package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/skelanim/internal/rig"
)

var validateCmd = &cobra.Command{
	Use:   "validate [rig.yaml]",
	Short: "Check a rig for broken references",
	Long: `Loads the rig in strict mode: unknown keys, clips and controllers are
errors instead of warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := rigPath(args)
		r, err := rig.Load(path, rig.Options{Strict: true})
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		states := 0
		if r.Graph != nil {
			states = len(r.Graph.Describe())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d joints, %d clips, %d controllers, %d states\n",
			path, r.Skeleton.NumJoints(), r.Clips.Len(), len(r.Controllers), states)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
