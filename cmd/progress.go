package cmd

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/render"
)

var progressCmd = &cobra.Command{
	Use:   "progress [roadmap-id]",
	Short: "Show level progress for one roadmap, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			ctx := cmd.Context()
			done, err := a.Progress.CompletedItems(ctx, userFlag(cmd))
			if err != nil {
				return err
			}

			var ids []int
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				ids = append(ids, id)
			} else {
				list, err := a.Catalog.List(ctx)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					lipgloss.Fprintln(cmd.OutOrStdout(), render.Roadmaps(nil))
					return nil
				}
				for _, r := range list {
					ids = append(ids, r.ID)
				}
			}

			for i, id := range ids {
				r, err := a.Catalog.Get(ctx, id)
				if err != nil {
					return err
				}
				p, err := a.Catalog.Progress(ctx, id, done)
				if err != nil {
					return err
				}
				if i > 0 {
					lipgloss.Fprintln(cmd.OutOrStdout())
				}
				lipgloss.Fprintln(cmd.OutOrStdout(), render.Progress(r.Topic, p))
			}
			return nil
		})
	},
}
