package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/joeydtaylor/steeze-promised/pkg/codec"
	"go.uber.org/zap"
)

var verbMethods = map[string]string{
	"get":     http.MethodGet,
	"post":    http.MethodPost,
	"put":     http.MethodPut,
	"delete":  http.MethodDelete,
	"patch":   http.MethodPatch,
	"head":    http.MethodHead,
	"options": http.MethodOptions,
}

// App is the host routing object. Every verb is backed by a RegisterFunc that
// can be read and replaced, which is how handler wrappers get installed.
type App struct {
	router Router
	log    *zap.Logger
	codec  codec.Codec

	mu     sync.RWMutex
	verbs  map[string]RegisterFunc
	routes RouteList
}

// NewApp builds an App on top of r. A nil logger disables logging.
func NewApp(r Router, log *zap.Logger) *App {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		router: r,
		log:    log,
		codec:  codec.JSONStrict,
		verbs:  make(map[string]RegisterFunc, len(verbMethods)),
	}
	for verb, method := range verbMethods {
		a.verbs[verb] = a.native(method)
	}
	r.NotFound(http.HandlerFunc(a.fallback))
	return a
}

// Verb returns the registration function currently behind verb.
func (a *App) Verb(name string) (RegisterFunc, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	fn, ok := a.verbs[strings.ToLower(name)]
	return fn, ok
}

// SetVerb replaces the registration function behind verb.
func (a *App) SetVerb(name string, fn RegisterFunc) {
	a.mu.Lock()
	a.verbs[strings.ToLower(name)] = fn
	a.mu.Unlock()
}

// Verbs lists the registered verb names.
func (a *App) Verbs() []string {
	a.mu.RLock()
	out := make([]string, 0, len(a.verbs))
	for v := range a.verbs {
		out = append(out, v)
	}
	a.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Register calls the registration function behind verb.
func (a *App) Register(verb string, args ...any) error {
	fn, ok := a.Verb(verb)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}
	return fn(args...)
}

func (a *App) Get(args ...any)    { a.must("get", args) }
func (a *App) Post(args ...any)   { a.must("post", args) }
func (a *App) Put(args ...any)    { a.must("put", args) }
func (a *App) Delete(args ...any) { a.must("delete", args) }
func (a *App) Patch(args ...any)  { a.must("patch", args) }

// bad route construction is a programming error, same as chi
func (a *App) must(verb string, args []any) {
	if err := a.Register(verb, args...); err != nil {
		panic(err)
	}
}

// Use appends middleware. As with chi, all middleware must be added before
// the first route.
func (a *App) Use(mw ...func(http.Handler) http.Handler) { a.router.Use(mw...) }

// Handle mounts a plain http.Handler, bypassing verb registration.
func (a *App) Handle(method, path string, h http.Handler) { a.router.Handle(method, path, h) }

func (a *App) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	a.router.Mux().ServeHTTP(w, req)
}

func (a *App) native(method string) RegisterFunc {
	return func(args ...any) error {
		var (
			path     any
			handlers []HandlerFunc
			cfg      routeConfig
		)
		for i, arg := range args {
			switch v := arg.(type) {
			case string, *regexp.Regexp:
				if path != nil {
					return fmt.Errorf("%w: argument %d", ErrDuplicatePath, i)
				}
				path = v
			case RouteOption:
				if v != nil {
					v(&cfg)
				}
			default:
				h, ok := AsHandler(arg)
				if !ok {
					return fmt.Errorf("%w: argument %d (%T)", ErrBadArgument, i, arg)
				}
				handlers = append(handlers, h)
			}
		}
		if path == nil {
			return ErrMissingPath
		}
		if len(handlers) == 0 {
			return ErrNoHandlers
		}

		h := a.chain(handlers)
		if cfg.timeout > 0 {
			h = withTimeout(h, cfg.timeout)
		}
		switch p := path.(type) {
		case string:
			a.router.Handle(method, p, h)
		case *regexp.Regexp:
			a.routes.add(method, p, h)
		}
		a.log.Debug("route registered",
			zap.String("httpMethod", method),
			zap.String("path", fmt.Sprint(path)),
			zap.Int("handlers", len(handlers)),
			zap.Duration("timeout", cfg.timeout),
		)
		return nil
	}
}

// chain runs handlers in order, each one reaching the next through its Next.
// ServeHTTP returns once the response is finalized or the request is gone.
func (a *App) chain(handlers []HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		res := newResponse(w, req, a.codec, a.log)
		defer res.close()

		var step func(i int)
		step = func(i int) {
			defer func() {
				if rec := recover(); rec != nil {
					res.Fail(fmt.Errorf("%w: %v", ErrHandlerPanic, rec))
				}
			}()
			if i >= len(handlers) {
				a.notFound(res, req)
				return
			}
			var once sync.Once
			handlers[i](res, req, func() { once.Do(func() { step(i + 1) }) })
		}
		step(0)

		select {
		case <-res.Done():
		case <-req.Context().Done():
			if errors.Is(req.Context().Err(), context.DeadlineExceeded) {
				res.expire()
			}
		}
	})
}

func (a *App) fallback(w http.ResponseWriter, req *http.Request) {
	if h, params, ok := a.routes.match(req); ok {
		h.ServeHTTP(w, withParams(req, params))
		return
	}
	res := newResponse(w, req, a.codec, a.log)
	a.notFound(res, req)
}

func (a *App) notFound(res *Response, req *http.Request) {
	msg := fmt.Sprintf("Cannot %s %s", req.Method, req.URL.Path)
	if err := res.Status(http.StatusNotFound).Send(msg); err != nil && !errors.Is(err, ErrAlreadySent) {
		res.Fail(err)
	}
}
