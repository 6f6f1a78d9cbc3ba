package promise

import (
	"context"
	"reflect"
	"sync"

	async "github.com/asmsh/promise"
)

// Family recognizes the pending values of one asynchronous implementation and
// exposes them as a Thenable.
type Family interface {
	Thenable(v any) (Thenable, bool)
}

// FamilyFunc adapts a function to Family.
type FamilyFunc func(v any) (Thenable, bool)

func (f FamilyFunc) Thenable(v any) (Thenable, bool) { return f(v) }

// Native recognizes promises of any element type and every value that
// implements Thenable.
var Native Family = FamilyFunc(func(v any) (Thenable, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case *Promise:
		if t == nil {
			return nil, false
		}
		return Of(t), true
	case Thenable:
		if isNil(t) {
			return nil, false
		}
		return t, true
	case Awaitable:
		if isNil(t) {
			return nil, false
		}
		val := reflect.ValueOf(t).MethodByName("Val")
		if !val.IsValid() || val.Type().NumIn() != 0 || val.Type().NumOut() != 1 {
			return nil, false
		}
		return reflected{a: t, val: val}, true
	}
	return nil, false
})

func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// Chan recognizes receive-only result channels. The channel is not read
// until a continuation is first registered, so recognizing a value has no
// side effect. The first received result settles it; a closed channel
// fulfills with nil.
var Chan Family = FamilyFunc(func(v any) (Thenable, bool) {
	ch, ok := v.(<-chan async.Result[any])
	if !ok || ch == nil {
		return nil, false
	}
	return &chanThenable{ch: ch}, true
})

type chanThenable struct {
	ch   <-chan async.Result[any]
	once sync.Once
	p    *Promise
}

func (c *chanThenable) promise() *Promise {
	c.once.Do(func() { c.p = async.Chan(c.ch) })
	return c.p
}

func (c *chanThenable) Then(onFulfilled func(any), onRejected func(error)) {
	Of(c.promise()).Then(onFulfilled, onRejected)
}

func (c *chanThenable) ThenContext(ctx context.Context, onFulfilled func(any), onRejected func(error)) {
	Of(c.promise()).ThenContext(ctx, onFulfilled, onRejected)
}

// Families tries each family in order.
func Families(fams ...Family) Family {
	return FamilyFunc(func(v any) (Thenable, bool) {
		for _, f := range fams {
			if t, ok := f.Thenable(v); ok {
				return t, true
			}
		}
		return nil, false
	})
}
