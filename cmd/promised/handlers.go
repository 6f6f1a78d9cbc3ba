package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	async "github.com/asmsh/promise"

	"github.com/joeydtaylor/steeze-promised/pkg/codec"
	"github.com/joeydtaylor/steeze-promised/pkg/core"
	"github.com/joeydtaylor/steeze-promised/pkg/promise"
	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
)

type sample struct {
	Foo []int  `json:"foo"`
	Bar string `json:"bar"`
}

func registerHandlers() {
	// handlers that write the response themselves
	core.Register("callback.string", func(res *httpx.Response, _ *http.Request) any {
		_ = res.Send("Hello")
		return nil
	})
	core.Register("callback.number", func(res *httpx.Response, _ *http.Request) any {
		_ = res.JSON(123)
		return nil
	})
	core.Register("callback.object", func(res *httpx.Response, _ *http.Request) any {
		return res.Send(sample{Foo: []int{1, 2, 3}, Bar: "Bar!"})
	})
	core.Register("callback.defer", func(res *httpx.Response, _ *http.Request) any {
		time.AfterFunc(100*time.Millisecond, func() { _ = res.Send("Defer!") })
		return nil
	})

	// handlers whose result is resolved
	core.Register("hello", func(*httpx.Response, *http.Request) any { return "Hello" })
	core.Register("number", func(*httpx.Response, *http.Request) any { return 123 })
	core.Register("object", func(*httpx.Response, *http.Request) any {
		return sample{Foo: []int{1, 2, 3}, Bar: "Bar!"}
	})
	core.Register("defer", func(*httpx.Response, *http.Request) any {
		return async.Delay(async.ValRes[any]("Defer!"), 100*time.Millisecond)
	})
	core.Register("chain", func(*httpx.Response, *http.Request) any {
		return async.Wrap(async.ValRes[any](nil)).
			Follow(func(context.Context, async.Result[any]) async.Result[any] { return async.ValRes[any]("Foo") }).
			Follow(func(context.Context, async.Result[any]) async.Result[any] { return async.ValRes[any]("Bar") }).
			Follow(func(context.Context, async.Result[any]) async.Result[any] { return async.ValRes[any]("Baz") })
	})
	core.Register("all", func(*httpx.Response, *http.Request) any {
		return promise.All(
			async.Delay(async.ValRes[any]("Foo"), 100*time.Millisecond),
			async.Delay(async.ValRes[any]("Bar"), 50*time.Millisecond),
			async.Delay(async.ValRes[any]("Baz"), 10*time.Millisecond),
		)
	})
	core.Register("echo", func(_ *httpx.Response, req *http.Request) any {
		return async.GoFunc[map[string]any, any](func() (map[string]any, error) {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			var v map[string]any
			if err := codec.JSONStrict.Unmarshal(body, &v); err != nil {
				return nil, err
			}
			return v, nil
		})
	})
	core.Register("device", func(_ *httpx.Response, req *http.Request) any {
		return map[string]string{"id": httpx.Param(req, "id"), "state": httpx.Param(req, "state")}
	})

	// chain steps
	core.Register("delay", func(*httpx.Response, *http.Request, httpx.Next) any {
		return async.Delay(async.ZeroRes[any](), 10*time.Millisecond)
	})
	core.Register("next", func(_ *httpx.Response, _ *http.Request, next httpx.Next) any {
		next()
		return nil
	})
	core.Register("next.later", func(_ *httpx.Response, _ *http.Request, next httpx.Next) any {
		time.AfterFunc(10*time.Millisecond, next)
		return nil
	})
	core.Register("done", func(res *httpx.Response, _ *http.Request) any { return res.Send("Done!") })
	core.Register("done.later", func(*httpx.Response, *http.Request) any {
		return async.Delay(async.ValRes[any]("Done!"), 30*time.Millisecond)
	})
	core.Register("reject", func(*httpx.Response, *http.Request) any {
		return async.Wrap(async.ErrRes[any](errors.New("Nope!")))
	})
}
