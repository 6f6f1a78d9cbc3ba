// pkg/promise/promise.go
package promise

import (
	"context"
	"errors"
	"sync"
	"time"

	async "github.com/asmsh/promise"
)

// Promise is the pending value handlers hand back.
type Promise = async.Promise[any]

var (
	// ErrPanicked matches the error of a promise whose callback panicked.
	ErrPanicked       = async.ErrPromisePanicked
	ErrSelfResolution = errors.New("promise: cannot resolve a promise with itself")
	ErrNilRejection   = errors.New("promise: rejected with nil error")
)

// New runs fn on its own goroutine and settles with its result. fn is not
// started when ctx is already done.
func New(ctx context.Context, fn func(context.Context) (any, error)) *Promise {
	return async.GoFunc[any, any](func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fn(ctx)
	})
}

// Resolve returns a promise fulfilled with v. A pending v is followed.
func Resolve(v any) *Promise {
	if p, ok := v.(*Promise); ok {
		if p != nil {
			return p
		}
		v = nil
	} else if th, ok := Native.Thenable(v); ok {
		return follow(th)
	}
	return async.Wrap(async.ValRes[any](v))
}

// Reject returns a promise rejected with err.
func Reject(err error) *Promise {
	return async.Wrap(async.ErrRes[any](rejection(err)))
}

// After fulfills with v once d has elapsed.
func After(d time.Duration, v any) *Promise {
	return async.Delay(async.ValRes[any](v), d)
}

// Deferred returns a pending promise together with its settle functions.
// Only the first call to either function has an effect. The promise rejects
// with ctx.Err() if ctx ends first.
func Deferred(ctx context.Context) (*Promise, func(any), func(error)) {
	ch := make(chan async.Result[any], 1)
	p := async.Chan[any](ch)

	var once sync.Once
	settle := func(r async.Result[any]) { once.Do(func() { ch <- r }) }
	stop := context.AfterFunc(ctx, func() { settle(async.ErrRes[any](ctx.Err())) })

	resolve := func(v any) {
		stop()
		if q, ok := v.(*Promise); ok && q == p {
			settle(async.ErrRes[any](ErrSelfResolution))
			return
		}
		settle(Resolve(v))
	}
	reject := func(err error) {
		stop()
		settle(async.ErrRes[any](rejection(err)))
	}
	return p, resolve, reject
}

// Map chains fn onto the fulfilled value. Rejections skip fn and propagate.
// A pending value returned by fn is followed.
func Map(p *Promise, fn func(any) (any, error)) *Promise {
	return p.Follow(func(_ context.Context, res async.Result[any]) async.Result[any] {
		if res.State() != async.Success {
			return res
		}
		v, err := fn(res.Val())
		if err != nil {
			return async.ErrRes[any](err)
		}
		return Resolve(v)
	})
}

// Catch turns a rejection into a value through fn. A panic in fn rejects
// the returned promise with ErrPanicked.
func Catch(p *Promise, fn func(error) (any, error)) *Promise {
	return p.Follow(func(_ context.Context, res async.Result[any]) async.Result[any] {
		if res.State() == async.Success {
			return res
		}
		v, err := fn(res.Err())
		if err != nil {
			return async.ErrRes[any](err)
		}
		return Resolve(v)
	})
}

func follow(t Thenable) *Promise {
	ch := make(chan async.Result[any], 1)
	var once sync.Once
	t.Then(
		func(v any) { once.Do(func() { ch <- Resolve(v) }) },
		func(err error) { once.Do(func() { ch <- async.ErrRes[any](rejection(err)) }) },
	)
	return async.Chan[any](ch)
}

func rejection(err error) error {
	if err == nil {
		return ErrNilRejection
	}
	return err
}
