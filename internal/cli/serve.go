package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/albumgrid/internal/server"
	"github.com/matzehuels/albumgrid/pkg/storage"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		store   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout API",
		Long: `Run the HTTP layout API.

Layouts created through POST /v1/layouts are kept in the configured store:
memory (default, lost on restart) or mongo. Rendered artifacts go through the
configured cache, which should be redis when several instances share load.

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store = store
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&store, "store", storeMemory, "layout store: memory, mongo")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg ServerConfig, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}

	st, err := c.newStore(ctx, cfg)
	if err != nil {
		runner.Close()
		return err
	}

	srv := server.New(server.Config{
		Addr:           cfg.Addr,
		Runner:         runner,
		Store:          st,
		Logger:         c.Logger,
		RequestTimeout: cfg.RequestTimeout,
	})
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Close(closeCtx); err != nil {
			c.Logger.Warn("close server resources", "error", err)
		}
	}()

	printInfo("Serving on %s (store: %s)", StyleHighlight.Render(cfg.Addr), cfg.Store)
	return srv.ListenAndServe(ctx)
}

func (c *CLI) newStore(ctx context.Context, cfg ServerConfig) (storage.Store, error) {
	switch cfg.Store {
	case storeMongo:
		st, err := storage.NewMongoStore(ctx, storage.MongoConfig{
			URI:      cfg.MongoURI,
			Database: cfg.MongoDatabase,
		})
		if err != nil {
			return nil, fmt.Errorf("connect store: %w", err)
		}
		return st, nil
	case storeMemory:
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store %q (must be memory or mongo)", cfg.Store)
	}
}
