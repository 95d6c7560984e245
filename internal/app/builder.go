package app

import (
	"context"
	"fmt"

	"loanpredict/internal/config"
	"loanpredict/internal/logger"
	"loanpredict/internal/model"
	"loanpredict/internal/predict"
	"loanpredict/internal/registry"
	"loanpredict/internal/transport/http/web"
)

type AppBuilder struct {
	cfg *config.Config

	registryFn func(config.ModelsConfig) (*registry.Registry, error)
	cacheFn    func(watch bool) (*model.Cache, error)
	serverFn   func(web.ServerConfig) (*web.Server, error)
}

type AppBuilderOption func(*AppBuilder)

// WithServerFactory replaces the web server constructor.
func WithServerFactory(fn func(web.ServerConfig) (*web.Server, error)) AppBuilderOption {
	return func(b *AppBuilder) {
		if fn != nil {
			b.serverFn = fn
		}
	}
}

func NewAppBuilder(cfg *config.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:        cfg,
		registryFn: registry.FromConfig,
		cacheFn:    model.NewCache,
		serverFn:   web.NewServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	cfg := b.cfg
	logger.SetLevel(cfg.App.LogLevel)

	reg, err := b.registryFn(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("model registry: %w", err)
	}
	logger.Infof("✓ Model registry loaded: %d entries %v", reg.Len(), reg.Names())

	cache, err := b.cacheFn(cfg.Models.WatchArtifacts)
	if err != nil {
		return nil, err
	}

	statuses, err := preflight(ctx, reg.Entries(), cache)
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	server, err := b.serverFn(web.ServerConfig{
		Addr:      cfg.App.HTTPAddr,
		UI:        cfg.UI,
		Models:    reg.Names(),
		Predictor: predict.NewService(reg, cache),
	})
	if err != nil {
		_ = cache.Close()
		return nil, err
	}

	return &App{
		cfg:    cfg,
		server: server,
		cache:  cache,
		Summary: &StartupSummary{
			Env:      cfg.App.Env,
			Addr:     server.Addr(),
			Watching: cfg.Models.WatchArtifacts,
			Models:   statuses,
		},
	}, nil
}
