package promise

import (
	"context"
	"reflect"

	async "github.com/asmsh/promise"
)

// Thenable is anything that supports then-style continuation.
// Exactly one of the callbacks is invoked, once, after the value settles.
type Thenable interface {
	Then(onFulfilled func(any), onRejected func(error))
}

// ContextThenable is a Thenable whose wait can be abandoned. Neither
// callback runs once ctx is done.
type ContextThenable interface {
	Thenable
	ThenContext(ctx context.Context, onFulfilled func(any), onRejected func(error))
}

// Awaitable is satisfied by every *async.Promise[T], whatever T is.
type Awaitable interface {
	WaitChan() <-chan struct{}
	Err() error
	State() async.State
}

// Watch registers continuations on t that are dropped when ctx ends first.
func Watch(ctx context.Context, t Thenable, onFulfilled func(any), onRejected func(error)) {
	if c, ok := t.(ContextThenable); ok {
		c.ThenContext(ctx, onFulfilled, onRejected)
		return
	}
	t.Then(onFulfilled, onRejected)
}

// Await blocks until t settles or ctx is done.
func Await(ctx context.Context, t Thenable) (any, error) {
	type result struct {
		v   any
		err error
	}
	ch := make(chan result, 1)
	Watch(ctx, t,
		func(v any) { ch <- result{v: v} },
		func(err error) { ch <- result{err: err} },
	)
	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Of exposes p as a Thenable. A fulfilled value that is itself pending is
// followed before the callbacks run.
func Of[T any](p *async.Promise[T]) ContextThenable {
	return settled[T]{p: p}
}

type settled[T any] struct{ p *async.Promise[T] }

func (s settled[T]) Then(onFulfilled func(any), onRejected func(error)) {
	s.p.Callback(func(_ context.Context, res async.Result[T]) {
		deliver(context.Background(), res.State(), func() any { return res.Val() }, res.Err, onFulfilled, onRejected)
	})
}

func (s settled[T]) ThenContext(ctx context.Context, onFulfilled func(any), onRejected func(error)) {
	go func() {
		select {
		case <-s.p.WaitChan():
			res := s.p.WaitRes()
			deliver(ctx, res.State(), func() any { return res.Val() }, res.Err, onFulfilled, onRejected)
		case <-ctx.Done():
		}
	}()
}

// reflected adapts promises of element types other than any.
type reflected struct {
	a   Awaitable
	val reflect.Value
}

func (r reflected) Then(onFulfilled func(any), onRejected func(error)) {
	r.ThenContext(context.Background(), onFulfilled, onRejected)
}

func (r reflected) ThenContext(ctx context.Context, onFulfilled func(any), onRejected func(error)) {
	go func() {
		select {
		case <-r.a.WaitChan():
			deliver(ctx, r.a.State(), func() any { return r.val.Call(nil)[0].Interface() }, r.a.Err, onFulfilled, onRejected)
		case <-ctx.Done():
		}
	}()
}

func deliver(ctx context.Context, state async.State, val func() any, errf func() error, onFulfilled func(any), onRejected func(error)) {
	if state != async.Success {
		if onRejected != nil {
			onRejected(rejection(errf()))
		}
		return
	}
	v := val()
	if inner, ok := Native.Thenable(v); ok {
		Watch(ctx, inner, onFulfilled, onRejected)
		return
	}
	if onFulfilled != nil {
		onFulfilled(v)
	}
}
