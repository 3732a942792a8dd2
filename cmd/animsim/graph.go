package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/skelanim/internal/engine/debug"
	"github.com/Faultbox/skelanim/internal/rig"
)

// graphCmd prints the rig's transition graph as Mermaid.
var graphCmd = &cobra.Command{
	Use:   "graph [rig.yaml]",
	Short: "Export the transition graph as a Mermaid diagram",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := rigOptions(cfg)
		if err != nil {
			return err
		}
		r, err := rig.Load(rigPath(args), opts)
		if err != nil {
			return err
		}
		if r.Graph == nil {
			return errors.New("rig has no graph")
		}
		overlay := &debug.GraphOverlay{CurrentState: r.Graph.State()}
		fmt.Fprint(cmd.OutOrStdout(), debug.GenerateMermaid(r.Graph.Describe(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
