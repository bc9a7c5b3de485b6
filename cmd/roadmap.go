package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/render"
	"github.com/abhisek/questmap/internal/roadmap"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Manage learning roadmaps",
}

var roadmapImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import a roadmap document and merge it into the knowledge graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rm, err := roadmap.LoadFile(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			rm.UserID = userFlag(cmd)
			res, err := a.Catalog.Import(cmd.Context(), rm)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %q as roadmap #%d (%d items, %d graph nodes, %d cross links)\n",
				rm.Topic, rm.ID, len(rm.Items), res.Nodes, res.Links)
			return nil
		})
	},
}

var roadmapListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported roadmaps",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			list, err := a.Catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			lipgloss.Fprintln(cmd.OutOrStdout(), render.Roadmaps(list))
			return nil
		})
	},
}

var roadmapShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a roadmap's levels and which of them are unlocked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			ctx := cmd.Context()
			done, err := a.Progress.CompletedItems(ctx, userFlag(cmd))
			if err != nil {
				return err
			}
			st, err := a.Catalog.Map(ctx, id, done)
			if err != nil {
				return err
			}
			lipgloss.Fprintln(cmd.OutOrStdout(), render.Map(st))
			return nil
		})
	},
}

var roadmapDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a roadmap with its graph nodes and recorded completions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			if err := a.Catalog.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted roadmap #%d\n", id)
			return nil
		})
	},
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func init() {
	roadmapCmd.AddCommand(roadmapImportCmd)
	roadmapCmd.AddCommand(roadmapListCmd)
	roadmapCmd.AddCommand(roadmapShowCmd)
	roadmapCmd.AddCommand(roadmapDeleteCmd)
}
