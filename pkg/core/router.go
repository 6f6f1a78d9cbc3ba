// core/router.go
package core

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	manifest "github.com/joeydtaylor/steeze-promised/pkg/manifest"
	"github.com/joeydtaylor/steeze-promised/pkg/middleware/logger"
	hmetrics "github.com/joeydtaylor/steeze-promised/pkg/middleware/metrics"
	httpx "github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
	"go.uber.org/zap"
)

type BuildDeps struct {
	App     *httpx.App
	LogMW   *logger.Middleware
	Metrics http.Handler
	Logger  *zap.Logger
	// Options are applied after the manifest's [resolver] settings.
	Options []Option
}

// BuildRouter installs the middleware stack and the result resolver on
// d.App, then registers every manifest route through the App's verbs.
func BuildRouter(cfg manifest.Config, d BuildDeps) (http.Handler, error) {
	app := d.App
	app.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.LogMW != nil {
		app.Use(d.LogMW.Middleware())
	}
	app.Use(hmetrics.Collect())

	opts := SettingsFromManifest(cfg)
	opts = append(opts, WithObserver(ObserveMetrics))
	if d.Logger != nil {
		opts = append(opts, WithLogger(d.Logger))
	}
	opts = append(opts, d.Options...)
	if _, err := Install(app, opts...); err != nil {
		return nil, err
	}

	if d.Metrics != nil {
		app.Handle(http.MethodGet, "/metrics", d.Metrics)
	}

	for i, rt := range cfg.Routes {
		if err := registerRoute(app, rt); err != nil {
			return nil, fmt.Errorf("route %d (%s %s): %w", i, rt.Method, rt.Target(), err)
		}
	}
	return app, nil
}

// registerRoute hands one manifest route to its verb and applies its
// observability policy.
func registerRoute(app *httpx.App, rt manifest.Route) error {
	var re *regexp.Regexp
	if rt.Pattern != "" {
		var err error
		if re, err = regexp.Compile(rt.Pattern); err != nil {
			return err
		}
	}
	args, err := routeArgs(rt, re)
	if err != nil {
		return err
	}
	if err := app.Register(strings.ToLower(rt.Method), args...); err != nil {
		return err
	}

	switch {
	case re != nil:
		hmetrics.GroupPatterns(re)
		if rt.Policy.SkipMetrics {
			hmetrics.AddMetricsSkipPatterns(re)
		}
		if rt.Policy.LogBody {
			logger.AddBodyLogPatterns(re)
		}
	default:
		if rt.Policy.SkipMetrics {
			hmetrics.AddMetricsSkipPaths(rt.Path)
		}
		if rt.Policy.LogBody {
			logger.AddBodyLogPaths(rt.Path)
		}
	}
	return nil
}

func routeArgs(rt manifest.Route, re *regexp.Regexp) ([]any, error) {
	args := make([]any, 0, len(rt.Handlers)+2)
	if re != nil {
		args = append(args, re)
	} else {
		args = append(args, rt.Path)
	}
	if rt.Policy.TimeoutMS > 0 {
		args = append(args, httpx.Timeout(time.Duration(rt.Policy.TimeoutMS)*time.Millisecond))
	}
	for _, name := range rt.Handlers {
		h, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownHandler, name)
		}
		args = append(args, h)
	}
	return args, nil
}

// SettingsFromManifest turns the [resolver] table into options.
func SettingsFromManifest(cfg manifest.Config) []Option {
	var opts []Option
	r := cfg.Resolver
	if len(r.WrapFunctions) > 0 {
		opts = append(opts, WithWrapFunctions(r.WrapFunctions...))
	}
	if r.ErrorStatus != 0 {
		opts = append(opts, WithError(ErrorStatus(r.ErrorStatus)))
	}
	if r.EmptyStatus != 0 {
		opts = append(opts, WithResolveEmpty(EmptyStatus(r.EmptyStatus)))
	}
	return opts
}

// ObserveMetrics counts applied outcomes in resolution_outcomes_total.
func ObserveMetrics(req *http.Request, o Outcome) {
	hmetrics.RecordOutcome(o.Kind.String(), req.Method)
}
