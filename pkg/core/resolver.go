package core

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/joeydtaylor/steeze-promised/pkg/promise"
	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
	"go.uber.org/zap"
)

// ErrRejected stands in for a rejection that carried no error.
var ErrRejected = errorString("pending value rejected without a reason")

// Resolver turns handler results into responses. It holds no per-request
// state and is safe for concurrent use.
type Resolver struct {
	s Settings
}

// NewResolver builds a Resolver from opts over the defaults.
func NewResolver(opts ...Option) *Resolver {
	return &Resolver{s: NewSettings(opts...)}
}

// Settings returns a copy of the effective settings.
func (r *Resolver) Settings() Settings {
	s := r.s
	s.WrapFunctions = append([]string(nil), r.s.WrapFunctions...)
	return s
}

// Classify sorts a synchronous handler result.
func (r *Resolver) Classify(v any) Class {
	switch {
	case r.s.IsPromise(v):
		return ClassPending
	case !Truthy(v):
		return ClassUnresolvable
	}
	if _, ok := v.(error); ok {
		return ClassFailure
	}
	if r.s.IsResolvable(v) {
		return ClassResolvable
	}
	return ClassUnresolvable
}

// Decide computes the outcome for a synchronous result. Pending results
// return the Thenable to wait on instead; their outcome comes from Settle.
func (r *Resolver) Decide(v any) (Outcome, promise.Thenable) {
	switch r.Classify(v) {
	case ClassPending:
		t, ok := r.s.Promise.Thenable(v)
		if !ok || t == nil {
			return Outcome{Kind: OutcomeError, Payload: fmt.Errorf("%w: %T", ErrNotThenable, v)}, nil
		}
		return Outcome{}, t
	case ClassFailure:
		return Outcome{Kind: OutcomeError, Payload: v}, nil
	case ClassResolvable:
		return Outcome{Kind: OutcomeSend, Payload: v}, nil
	}
	return Outcome{Kind: OutcomeNoop}, nil
}

// Settle computes the outcome once a pending result settled with v or err.
// An empty value moves on to the next handler when there is one and is
// acknowledged with an empty success otherwise.
func (r *Resolver) Settle(v any, err error, hasNext bool) Outcome {
	switch {
	case err != nil:
		return Outcome{Kind: OutcomeError, Payload: err}
	case Truthy(v):
		return Outcome{Kind: OutcomeSend, Payload: v}
	case hasNext:
		return Outcome{Kind: OutcomeAdvance}
	}
	return Outcome{Kind: OutcomeSendEmpty}
}

// Dispatch resolves one handler result. terminal marks the last handler of
// its registration; only non-terminal handlers advance. A pending result is
// abandoned once the request context ends.
func (r *Resolver) Dispatch(res *httpx.Response, req *http.Request, next httpx.Next, terminal bool, result any) {
	o, pending := r.Decide(result)
	if pending == nil {
		r.apply(res, req, next, o)
		return
	}

	hasNext := !terminal && next != nil
	var once sync.Once
	promise.Watch(req.Context(), pending,
		func(v any) {
			once.Do(func() { r.apply(res, req, next, r.Settle(v, nil, hasNext)) })
		},
		func(err error) {
			if err == nil {
				err = ErrRejected
			}
			once.Do(func() { r.apply(res, req, next, r.Settle(nil, err, hasNext)) })
		},
	)
}

func (r *Resolver) apply(res *httpx.Response, req *http.Request, next httpx.Next, o Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			res.Fail(fmt.Errorf("%w: %v", httpx.ErrHandlerPanic, rec))
		}
	}()

	if ce := r.s.Logger.Check(zap.DebugLevel, "handler result resolved"); ce != nil {
		ce.Write(
			zap.Stringer("outcome", o.Kind),
			zap.String("httpMethod", req.Method),
			zap.String("uri", req.URL.Path),
		)
	}
	// observers see an advance before anything it leads to
	if r.s.Observer != nil {
		r.s.Observer(req, o)
	}

	var err error
	switch o.Kind {
	case OutcomeAdvance:
		next()
	case OutcomeSend:
		err = r.s.Resolve(res, req, o.Payload)
	case OutcomeSendEmpty:
		err = r.s.ResolveEmpty(res, req)
	case OutcomeError:
		cause, _ := o.Payload.(error)
		err = r.s.Error(res, req, cause)
	}
	if err != nil {
		res.Fail(err)
	}
}
