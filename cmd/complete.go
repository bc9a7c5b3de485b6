package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/render"
)

var completeCmd = &cobra.Command{
	Use:   "complete <item-id> <score> <total-questions>",
	Short: "Report a quiz result for a roadmap item",
	Long:  "Report a quiz result. Only a perfect score unlocks the item.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		itemID, err := parseID(args[0])
		if err != nil {
			return err
		}
		score, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid score %q", args[1])
		}
		total, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid total %q", args[2])
		}
		return withApp(cmd, func(a *app.App) error {
			res, err := a.Progress.RecordCompletion(cmd.Context(), userFlag(cmd), itemID, score, total)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case res.IsNewUnlock:
				fmt.Fprintf(out, "Unlocked item %d!\n", res.ItemID)
			case res.Unlocked:
				fmt.Fprintf(out, "Item %d was already unlocked.\n", res.ItemID)
			default:
				fmt.Fprintf(out, "Score %d/%d recorded. A perfect score unlocks item %d.\n", score, total, res.ItemID)
			}
			if res.Discovery.ShouldShowDiscovery {
				lipgloss.Fprintln(out, render.Guide(res.Discovery))
			}
			return nil
		})
	},
}
