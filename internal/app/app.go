package app

import (
	"context"
	"fmt"

	"loanpredict/internal/config"
	"loanpredict/internal/logger"
	"loanpredict/internal/model"
	"loanpredict/internal/transport/http/web"

	"golang.org/x/sync/errgroup"
)

// App wires configuration, the model registry and the web page together.
type App struct {
	cfg     *config.Config
	server  *web.Server
	cache   *model.Cache
	Summary *StartupSummary
}

// NewApp builds the application without starting it.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run serves the page and watches artifacts until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.server == nil {
		return fmt.Errorf("web server not initialized")
	}
	if a.Summary != nil {
		a.Summary.Print()
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("web server error: %w", err)
		}
		return nil
	})
	if a.cache != nil {
		group.Go(func() error {
			return a.cache.Run(ctx)
		})
	}
	err := group.Wait()
	if a.cache != nil {
		if cerr := a.cache.Close(); cerr != nil {
			logger.Warnf("close artifact watcher: %v", cerr)
		}
	}
	return err
}

// Server exposes the web server, mainly for tests.
func (a *App) Server() *web.Server {
	if a == nil {
		return nil
	}
	return a.server
}
