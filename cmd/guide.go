package cmd

import (
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/render"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Interact with the discovery guide",
}

var guideStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the guide's phase and whether a discovery is pending",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			snap, err := a.Progress.DiscoveryState(cmd.Context(), userFlag(cmd))
			if err != nil {
				return err
			}
			lipgloss.Fprintln(cmd.OutOrStdout(), render.Guide(snap))
			return nil
		})
	},
}

var guideAckCmd = &cobra.Command{
	Use:   "ack",
	Short: "Mark the pending discovery as shown",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			snap, err := a.Progress.AcknowledgeDiscovery(cmd.Context(), userFlag(cmd))
			if err != nil {
				return err
			}
			lipgloss.Fprintln(cmd.OutOrStdout(), render.Guide(snap))
			return nil
		})
	},
}

func visibilityCmd(use, short string, visible bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				snap, err := a.Progress.SetGuideVisible(cmd.Context(), userFlag(cmd), visible)
				if err != nil {
					return err
				}
				lipgloss.Fprintln(cmd.OutOrStdout(), render.Guide(snap))
				return nil
			})
		},
	}
}

var guideDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Ask the guide for new topics",
	Long: "Ask the guide for new topics. Without --force nothing is requested unless a\n" +
		"discovery is pending. Shown suggestions are acknowledged unless --no-ack is set.",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		noAck, _ := cmd.Flags().GetBool("no-ack")
		return withApp(cmd, func(a *app.App) error {
			ctx := cmd.Context()
			user := userFlag(cmd)
			res, err := a.Progress.Discover(ctx, user, force)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Requested {
				lipgloss.Fprintln(out, render.Guide(res.Discovery))
				return nil
			}
			lipgloss.Fprintln(out, render.Suggestions(res.Discovery.Phase, res.Suggestions))
			if res.Discovery.ShouldShowDiscovery && !noAck {
				if _, err := a.Progress.AcknowledgeDiscovery(ctx, user); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

func init() {
	guideDiscoverCmd.Flags().Bool("force", false, "Request suggestions even when no discovery is pending")
	guideDiscoverCmd.Flags().Bool("no-ack", false, "Leave the discovery pending after showing suggestions")

	guideCmd.AddCommand(guideStateCmd)
	guideCmd.AddCommand(guideAckCmd)
	guideCmd.AddCommand(visibilityCmd("show", "Show the guide", true))
	guideCmd.AddCommand(visibilityCmd("hide", "Hide the guide; thresholds keep counting", false))
	guideCmd.AddCommand(guideDiscoverCmd)
}

