package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/llm"
	"github.com/abhisek/questmap/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the event log",
}

func eventOpts(cmd *cobra.Command, scopeUser bool) store.QueryOpts {
	limit, _ := cmd.Flags().GetInt("limit")
	opts := store.QueryOpts{Limit: limit}
	if scopeUser {
		if all, _ := cmd.Flags().GetBool("all-users"); !all {
			opts.UserID = userFlag(cmd)
		}
	}
	return opts
}

var eventsAttemptsCmd = &cobra.Command{
	Use:   "attempts",
	Short: "List recent quiz attempts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			events, err := a.Store.EventRepo().QueryAttempts(cmd.Context(), eventOpts(cmd, true))
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No attempts found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-16s  %-6s  %-7s  %s\n", "Seq", "Timestamp", "User", "Item", "Score", "Unlock")
			fmt.Fprintln(out, strings.Repeat("─", 72))
			for _, e := range events {
				unlock := ""
				if e.NewUnlock {
					unlock = "✓"
				}
				fmt.Fprintf(out, "%-5d  %-19s  %-16s  %-6d  %-7s  %s\n",
					e.Sequence,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					truncate(e.UserID, 16),
					e.ItemID,
					fmt.Sprintf("%d/%d", e.Score, e.TotalQuestions),
					unlock,
				)
			}
			return nil
		})
	},
}

var eventsDiscoveryCmd = &cobra.Command{
	Use:   "discovery",
	Short: "List recent guide events",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			events, err := a.Store.EventRepo().QueryDiscovery(cmd.Context(), eventOpts(cmd, true))
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No guide events found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-16s  %-12s  %-7s  %-5s  %s\n", "Seq", "Timestamp", "User", "Action", "Unlocks", "Phase", "Detail")
			fmt.Fprintln(out, strings.Repeat("─", 90))
			for _, e := range events {
				fmt.Fprintf(out, "%-5d  %-19s  %-16s  %-12s  %-7d  %-5d  %s\n",
					e.Sequence,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					truncate(e.UserID, 16),
					e.Action,
					e.TotalUnlocks,
					e.Phase,
					e.Detail,
				)
			}
			return nil
		})
	},
}

var eventsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "List recent LLM requests with an estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		purpose, _ := cmd.Flags().GetString("purpose")
		return withApp(cmd, func(a *app.App) error {
			events, err := a.Store.EventRepo().QueryLLMRequests(cmd.Context(), eventOpts(cmd, false))
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No LLM events found.")
				return nil
			}

			fmt.Fprintf(out, "%-5s  %-19s  %-8s  %-28s  %-6s  %-6s  %-7s  %s\n",
				"Seq", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK")
			fmt.Fprintln(out, strings.Repeat("─", 100))

			var totalCost float64
			unknown := map[string]bool{}
			for _, e := range events {
				if purpose != "" && e.Purpose != purpose {
					continue
				}
				ok := "✓"
				if !e.Success {
					ok = "✗"
				}
				if cost := llm.LookupCost(e.Model); cost != nil {
					totalCost += cost.Cost(e.InputTokens, e.OutputTokens)
				} else {
					unknown[e.Model] = true
				}
				fmt.Fprintf(out, "%-5d  %-19s  %-8s  %-28s  %-6d  %-6d  %-7d  %s\n",
					e.Sequence,
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Purpose,
					truncate(e.Model, 28),
					e.InputTokens,
					e.OutputTokens,
					e.LatencyMs,
					ok,
				)
			}

			fmt.Fprintln(out, strings.Repeat("─", 100))
			label := "Estimated cost"
			if len(unknown) > 0 {
				label += " (partial)"
			}
			fmt.Fprintf(out, "%s: %s\n", label, formatCost(totalCost))
			if len(unknown) > 0 {
				models := make([]string, 0, len(unknown))
				for m := range unknown {
					models = append(models, m)
				}
				sort.Strings(models)
				fmt.Fprintf(out, "Pricing unavailable for: %s\n", strings.Join(models, ", "))
			}
			return nil
		})
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	eventsCmd.PersistentFlags().IntP("limit", "n", 20, "Number of events to show")
	eventsAttemptsCmd.Flags().Bool("all-users", false, "Show events of every user")
	eventsDiscoveryCmd.Flags().Bool("all-users", false, "Show events of every user")
	eventsLLMCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (suggest, link)")

	eventsCmd.AddCommand(eventsAttemptsCmd)
	eventsCmd.AddCommand(eventsDiscoveryCmd)
	eventsCmd.AddCommand(eventsLLMCmd)
}
