package serverfx

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joeydtaylor/steeze-promised/pkg/bundlefx"
	"github.com/joeydtaylor/steeze-promised/pkg/core"
	"github.com/joeydtaylor/steeze-promised/pkg/manifest"
	"github.com/joeydtaylor/steeze-promised/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ---------- Options ----------

// Options are read from the environment by LoadOptions.
type Options struct {
	Service  string `env:"SERVICE_NAME" envDefault:"promised"` // for logs only
	Manifest string `env:"MANIFEST" envDefault:"manifest.toml"`
	Listen   string `env:"SERVER_LISTEN_ADDRESS" envDefault:":4000"`
	TLSCert  string `env:"SSL_SERVER_CERTIFICATE"`
	TLSKey   string `env:"SSL_SERVER_KEY"`
}

// LoadOptions reads Options from the environment, after loading a .env file
// from the working directory when there is one. prefix is prepended to every
// variable name, so services can share a host.
func LoadOptions(prefix string) (Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Options{}, fmt.Errorf("load .env: %w", err)
	}
	opts, err := env.ParseAsWithOptions[Options](env.Options{Prefix: prefix})
	if err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return opts, nil
}

// Module returns a complete Fx option set; add app-specific fx.Invoke(...) alongside.
func Module(opts Options) fx.Option {
	return fx.Options(
		fx.Supply(opts),
		bundlefx.Module,
		// Router impl
		fx.Provide(httpx.NewChi),
		fx.Provide(provideApp),
		fx.Provide(provideManifest),
		fx.Provide(fx.Annotate(provideRouter, fx.ResultTags(`name:"app"`))),
		// Lifecycle
		fx.Invoke(registerHooks),
	)
}

// ---------- Router ----------

func provideApp(r httpx.Router, zl *zap.Logger) *httpx.App {
	return httpx.NewApp(r, zl)
}

func provideManifest(opts Options) (manifest.Config, error) {
	cfg, err := core.LoadConfig(opts.Manifest)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("manifest %s: %w", opts.Manifest, err)
	}
	return cfg, nil
}

type routerDeps struct {
	fx.In

	Cfg     manifest.Config
	App     *httpx.App
	LogMW   *logger.Middleware
	Metrics http.Handler `name:"metrics"`
	Log     *zap.Logger
}

func provideRouter(d routerDeps) (http.Handler, error) {
	h, err := core.BuildRouter(d.Cfg, core.BuildDeps{
		App:     d.App,
		LogMW:   d.LogMW,
		Metrics: d.Metrics,
		Logger:  d.Log,
	})
	if err != nil {
		return nil, err
	}
	d.Log.Info("routes registered",
		zap.Int("routes", len(d.Cfg.Routes)),
		zap.Strings("handlers", core.Registered()),
	)
	return h, nil
}

// ---------- Lifecycle ----------

type serverDeps struct {
	fx.In
	Opts   Options
	Logger *zap.Logger
	App    http.Handler `name:"app"`
}

func registerHooks(lc fx.Lifecycle, d serverDeps) {
	srv := &http.Server{
		Addr:         d.Opts.Listen,
		Handler:      d.App,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    &tls.Config{MinVersion: tls.VersionTLS13, MaxVersion: tls.VersionTLS13},
	}
	cert, key := d.Opts.TLSCert, d.Opts.TLSKey
	useTLS := fileExists(cert) && fileExists(key)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if useTLS {
				d.Logger.Info("server starting (TLS)",
					zap.String("service", d.Opts.Service),
					zap.String("addr", srv.Addr),
					zap.String("cert", cert),
				)
				go func() {
					if err := srv.ListenAndServeTLS(cert, key); err != nil && !errors.Is(err, http.ErrServerClosed) {
						d.Logger.Fatal("server failed", zap.Error(err))
					}
				}()
				return nil
			}

			d.Logger.Info("server starting (PLAINTEXT)",
				zap.String("service", d.Opts.Service),
				zap.String("addr", srv.Addr),
			)
			srv.TLSConfig = nil
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					d.Logger.Fatal("server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			d.Logger.Info("server stopping", zap.String("service", d.Opts.Service))
			return srv.Shutdown(ctx)
		},
	})
}

// ---------- tiny helpers ----------

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
