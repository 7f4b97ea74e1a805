package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jaganpro/sf-schema-viewer/internal/api"
)

// serveCommand creates the serve command that runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the schema viewer HTTP server",
		Long: `Start the HTTP server that backs the web frontend.

The server handles the Salesforce OAuth flow, proxies describe requests,
and generates diagrams server-side. Configure the Salesforce connected
app credentials in the config file or via SFVIEWER_* environment
variables before starting.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			store, err := newServerCache(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init cache: %w", err)
			}
			defer store.Close()

			sessions, states, err := newSessionStores(ctx, cfg)
			if err != nil {
				return fmt.Errorf("init session store: %w", err)
			}

			c.Logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"login_url", cfg.Salesforce.LoginURL,
				"api_version", cfg.Salesforce.APIVersion,
				"cache", cfg.Cache.Backend,
				"sessions", cfg.Sessions.Backend)

			srv := api.NewServer(cfg, c.Logger, sessions, states, store)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}
