package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/questmap/internal/app"
	"github.com/abhisek/questmap/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			addr := a.Config.Server.Addr()
			if flag, _ := cmd.Flags().GetString("addr"); flag != "" {
				addr = flag
			}
			if a.Provider == nil {
				a.Log.Info("no LLM provider configured, using built-in suggestions")
			}
			return server.New(a).Run(cmd.Context(), addr)
		})
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides QUESTMAP_SERVER_HOST/PORT)")
}
