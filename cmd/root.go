package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/platform/config"
	"github.com/abhisek/questmap/internal/platform/logger"
	"github.com/abhisek/questmap/internal/store"
)

const defaultUser = "default_user"

var rootCmd = &cobra.Command{
	Use:   "questmap",
	Short: "Learning roadmaps with unlockable levels and a discovery guide",
	Long: "questmap tracks progress through leveled learning roadmaps, reveals the knowledge\n" +
		"graph as items are unlocked and surfaces new topics through a guide.",
	SilenceUsage: true,
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUESTMAP_DB env var)")
	rootCmd.PersistentFlags().StringP("user", "u", defaultUser, "User id whose progress is read and written")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(guideCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUESTMAP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func userFlag(cmd *cobra.Command) string {
	u, _ := cmd.Flags().GetString("user")
	if u == "" {
		return defaultUser
	}
	return u
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Options{
		Mode:     cfg.Log.Mode,
		Level:    cfg.Log.Level,
		Redact:   cfg.Log.Redact,
		HashSalt: cfg.Log.HashSalt,
	})
}

// openApp loads the configuration and wires every service. Callers close
// the returned App.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	a, err := app.New(cmd.Context(), app.Options{Config: cfg, Logger: log, DBPath: dbPath})
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// withApp runs fn against a freshly opened App and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		a.Close()
		a.Log.Sync()
	}()
	return fn(a)
}
