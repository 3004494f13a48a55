package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/internal/server"
	"github.com/matzehuels/folio/internal/watch"
	"github.com/matzehuels/folio/pkg/cache"
	"github.com/matzehuels/folio/pkg/config"
)

// serveKeyPrefix scopes the server's cache entries away from CLI renders.
const serveKeyPrefix = "serve:"

// serveCommand creates the HTTP export server command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve diagram exports over HTTP",
		Long: `Serve the settled diagram over HTTP:

  GET /healthz
  GET /graph.svg, /graph.png, /graph.dot.svg, /graph.json
      ?width=800&height=800&compact=true

Every export carries the generating scene id in the X-Scene-ID header.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, noWatch)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config, or $FOLIO_ADDR)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload the config file when it changes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, noWatch bool) error {
	logger := loggerFromContext(ctx)

	cfg, path, err := c.config()
	if err != nil {
		return err
	}
	dopts, err := cfg.Options()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), serveKeyPrefix)
	runner, err := c.newRunner(ctx, cfg, noCache, keyer)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv, err := server.New(server.Config{
		Runner:    runner,
		Graph:     cfg.Graph(),
		Diagram:   dopts,
		RateLimit: cfg.Server.RateLimit,
		Burst:     cfg.Server.Burst,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	if path != "" && !noWatch {
		w, err := watch.New(path, 0)
		if err != nil {
			logger.Warn("config watch disabled", "path", path, "error", err)
		} else {
			defer w.Close()
			go reloadServer(ctx, w, srv, path, c)
		}
	}

	printInfo("Serving on %s", StyleLink.Render("http://"+addr))
	printNextStep("Try", "curl http://"+addr+"/graph.svg")
	return srv.ListenAndServe(ctx, addr)
}

// reloadServer swaps the served graph whenever the config file changes. A
// config that fails to load keeps the previous graph.
func reloadServer(ctx context.Context, w *watch.Watcher, srv *server.Server, path string, c *CLI) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.Errors():
			c.Logger.Warn("config watch error", "error", err)
		case <-w.Changes():
			cfg, err := config.LoadFile(path)
			if err != nil {
				c.Logger.Error("config reload failed", "path", path, "error", err)
				continue
			}
			opts, err := cfg.Options()
			if err != nil {
				c.Logger.Error("config reload failed", "path", path, "error", err)
				continue
			}
			if err := srv.SetGraph(cfg.Graph(), opts); err != nil {
				c.Logger.Error("config reload failed", "path", path, "error", err)
				continue
			}
			c.Logger.Info("config reloaded", "path", path, "nodes", len(cfg.Graph().Nodes))
		}
	}
}
