// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/starford/sikabut/internal/api"
	"github.com/starford/sikabut/internal/history"
	"github.com/starford/sikabut/internal/kvstore"
	"github.com/starford/sikabut/internal/mcpserver"
	"github.com/starford/sikabut/internal/portal"
	"github.com/starford/sikabut/internal/relay"
	"github.com/starford/sikabut/internal/relayclient"
	"github.com/starford/sikabut/internal/reload"
	"github.com/starford/sikabut/internal/tui"
	pkgconfig "github.com/starford/sikabut/pkg/config"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{out: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Run starts the relay HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	if err := cfg.RequireUpstream(); err != nil {
		return err
	}

	// Initialize structured JSON logger. The level can change on reload.
	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	logger := newLogger(os.Stdout, level)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("upstream_param", cfg.Upstream.Param),
		slog.Duration("upstream_timeout", cfg.Upstream.Timeout),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rc, err := relay.New(cfg.Upstream.URL, cfg.Upstream.Timeout,
		relay.WithParam(cfg.Upstream.Param),
		relay.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           api.NewRootRouter(rc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Hot-reload the upstream settings when the config file changes.
	if app.configPath != "" {
		g.Go(func() error {
			if err := reload.Watch(gCtx, app.configPath, logger, reloadFunc(app.configPath, rc, level)); err != nil {
				logger.Warn("config watcher disabled", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// reloadFunc re-reads the config file and applies the upstream settings
// and log level. On any error the running settings are kept.
func reloadFunc(path string, rc *relay.Client, level *slog.LevelVar) func() error {
	return func() error {
		next := NewDefaultConfig()
		if err := pkgconfig.Load(path, next); err != nil {
			return err
		}
		if err := next.RequireUpstream(); err != nil {
			return err
		}
		if err := rc.Reconfigure(next.Upstream.URL, next.Upstream.Timeout); err != nil {
			return err
		}
		level.Set(next.App.LogLevel)
		return nil
	}
}

// RunLookup starts the terminal lookup UI, or prints a single result when
// a file number was given.
func RunLookup(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// The terminal belongs to the UI; logs go to a file or nowhere.
	logOut := io.Discard
	if app.logFile != "" {
		f, err := os.OpenFile(app.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg.App.LogLevel)
	slog.SetDefault(logger)

	fetcher, err := newFetcher(cfg, app.relayURL, logger)
	if err != nil {
		return err
	}

	var hist *history.History
	if cfg.Portal.History.Enabled && !app.noHistory {
		db, err := kvstore.Open(cfg.Portal.History.Path)
		if err != nil {
			return fmt.Errorf("init history: %w", err)
		}
		defer db.Close()
		hist = history.New(db, history.WithLimit(cfg.Portal.History.Limit))
	}

	session := portal.NewSession(fetcher,
		portal.WithHistory(hist),
		portal.WithBranding(cfg.Portal.Branding),
		portal.WithLogger(logger))

	if app.fileNumber != "" {
		v := session.Search(ctx, app.fileNumber)
		brand := session.Branding()
		fmt.Fprintln(app.out, tui.Render(v, brand, tui.NewStyles(brand.Theme)))
		if v.State == portal.Errored {
			return errors.New("lookup failed")
		}
		return nil
	}

	p := tea.NewProgram(tui.New(ctx, session, fetcher), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run lookup UI: %w", err)
	}
	return nil
}

// newFetcher prefers a running relay; without one it relays in-process.
func newFetcher(cfg *Config, relayURL string, logger *slog.Logger) (portal.Fetcher, error) {
	if relayURL == "" {
		relayURL = cfg.Portal.RelayURL
	}
	if relayURL != "" {
		c, err := relayclient.New(relayURL, cfg.Portal.Timeout)
		if err != nil {
			return nil, fmt.Errorf("init relay client: %w", err)
		}
		logger.Debug("using relay", slog.String("url", relayURL))
		return c, nil
	}
	if err := cfg.RequireUpstream(); err != nil {
		return nil, fmt.Errorf("either portal.relay_url or %w", err)
	}
	rc, err := relay.New(cfg.Upstream.URL, cfg.Upstream.Timeout,
		relay.WithParam(cfg.Upstream.Param),
		relay.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("init relay: %w", err)
	}
	logger.Debug("using in-process relay")
	return relayclient.Local{Relay: rc}, nil
}

// RunMCP serves the lookup tools over stdio until the client disconnects.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	if err := cfg.RequireUpstream(); err != nil {
		return err
	}

	// stdout carries the protocol.
	logger := newLogger(os.Stderr, cfg.App.LogLevel)
	slog.SetDefault(logger)

	rc, err := relay.New(cfg.Upstream.URL, cfg.Upstream.Timeout,
		relay.WithParam(cfg.Upstream.Param),
		relay.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init relay: %w", err)
	}

	srv := mcpserver.New(relayclient.Local{Relay: rc}, cfg.Portal.Branding, logger)
	logger.Info("MCP server starting on stdio")
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
