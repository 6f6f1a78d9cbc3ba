package core

import (
	"fmt"
	"net/http"

	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
)

// Host exposes the per-verb registration functions of a routing object.
// *httpx.App implements it.
type Host interface {
	Verb(name string) (httpx.RegisterFunc, bool)
	SetVerb(name string, fn httpx.RegisterFunc)
}

// Install wraps the registration function of every verb in WrapFunctions so
// that handlers registered through it have their results resolved. Nothing
// is replaced when a verb is unknown to host.
func Install(host Host, opts ...Option) (*Resolver, error) {
	r := NewResolver(opts...)
	orig := make([]httpx.RegisterFunc, len(r.s.WrapFunctions))
	for i, verb := range r.s.WrapFunctions {
		fn, ok := host.Verb(verb)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
		}
		orig[i] = fn
	}
	for i, verb := range r.s.WrapFunctions {
		host.SetVerb(verb, r.Wrap(verb, orig[i]))
	}
	r.s.Logger.Debug("result resolver installed")
	return r, nil
}

// Wrap returns a registration function that rewrites its arguments before
// handing them to register.
func (r *Resolver) Wrap(verb string, register httpx.RegisterFunc) httpx.RegisterFunc {
	return func(args ...any) error {
		rewritten, err := r.Rewrite(verb, args)
		if err != nil {
			return err
		}
		return register(rewritten...)
	}
}

// Rewrite classifies args and replaces every handler with an adapter that
// resolves its result. The adapter of the last handler is terminal.
func (r *Resolver) Rewrite(verb string, args []any) ([]any, error) {
	entries, err := r.ClassifyArgs(verb, args)
	if err != nil {
		return nil, err
	}
	last := -1
	for i, e := range entries {
		if e.Kind == EntryHandler {
			last = i
		}
	}

	out := make([]any, len(entries))
	for i, e := range entries {
		if e.Kind != EntryHandler {
			out[i] = e.Value
			continue
		}
		out[i] = r.adapt(e.Handler, i == last)
	}
	return out, nil
}

func (r *Resolver) adapt(h httpx.HandlerFunc, terminal bool) httpx.HandlerFunc {
	return func(res *httpx.Response, req *http.Request, next httpx.Next) any {
		result := h(res, req, next)
		r.Dispatch(res, req, next, terminal, result)
		return nil
	}
}
