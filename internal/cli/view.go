package cli

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/folio/internal/watch"
	"github.com/matzehuels/folio/pkg/config"
	"github.com/matzehuels/folio/pkg/diagram"
)

// viewOpts holds the command-line flags for the view command.
type viewOpts struct {
	compact bool // force compact icons regardless of terminal width
	noWatch bool // do not reload the config file on change
}

// viewCommand creates the interactive landing page command.
func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the interactive landing page (default)",
		Long: `Open the landing page: the name panel and a live force-directed diagram of the
portfolio. Drag nodes with the mouse; hover a node for a second to see its
category. The diagram rebuilds when the terminal is resized or the config file
changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.compact, "compact", false, "use compact icons")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the config file when it changes")

	return cmd
}

func (c *CLI) runView(ctx context.Context, opts viewOpts) error {
	cfg, path, err := c.config()
	if err != nil {
		return err
	}
	dopts, err := cfg.Options()
	if err != nil {
		return err
	}
	if opts.compact {
		dopts.Compact = true
	}

	logFile, err := openLogFile(c.Logger, c.logFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	var p *tea.Program
	sched := diagram.NewTimerScheduler(func(fn func()) { p.Send(runMsg(fn)) })
	d, err := diagram.New(cfg.Graph(), dopts, sched, c.Logger)
	if err != nil {
		return err
	}
	defer d.Close()

	m := newViewModel(d, cfg.Profile, c.Logger)

	var w *watch.Watcher
	if path != "" && !opts.noWatch {
		w, err = watch.New(path, 0)
		if err != nil {
			c.Logger.Warn("config watch disabled", "path", path, "error", err)
		} else {
			defer w.Close()
			m.reload = func() (*config.Config, error) {
				cfg, err := config.LoadFile(path)
				if err == nil && opts.compact {
					cfg.Diagram.Compact = true
				}
				return cfg, err
			}
		}
	}

	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))

	// Feed config changes into the TUI until the program exits.
	if m.reload != nil {
		watchCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			for {
				select {
				case <-watchCtx.Done():
					return
				case <-w.Changes():
					p.Send(configChangedMsg{})
				case err := <-w.Errors():
					c.Logger.Warn("config watch error", "error", err)
				}
			}
		}()
	}

	c.Logger.Info("view started", "nodes", len(cfg.Graph().Nodes), "config", path)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
