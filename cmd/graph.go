package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/render"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the knowledge graph as far as it has been discovered",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			ctx := cmd.Context()
			done, err := a.Progress.CompletedItems(ctx, userFlag(cmd))
			if err != nil {
				return err
			}
			p, err := a.Catalog.Projected(ctx, done)
			if err != nil {
				return err
			}
			lipgloss.Fprintln(cmd.OutOrStdout(), render.Graph(p))
			return nil
		})
	},
}

var graphRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Regenerate the graph from the stored roadmaps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			g, err := a.Catalog.Rebuild(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Graph rebuilt: %d nodes, %d edges\n", len(g.Nodes), len(g.Edges))
			return nil
		})
	},
}

func init() {
	graphCmd.AddCommand(graphRebuildCmd)
}
