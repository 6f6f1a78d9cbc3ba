package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
)

func newApp(t *testing.T) *httpx.App {
	t.Helper()
	return httpx.NewApp(httpx.NewChi(), zaptest.NewLogger(t))
}

func do(app http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestChainRunsInRegistrationOrder(t *testing.T) {
	app := newApp(t)

	var order []int
	app.Get("/chain",
		func(res *httpx.Response, req *http.Request, next httpx.Next) any {
			order = append(order, 1)
			next()
			return nil
		},
		func(res *httpx.Response, req *http.Request, next httpx.Next) any {
			order = append(order, 2)
			next()
			next() // ignored
			return nil
		},
		func(res *httpx.Response, req *http.Request) any {
			order = append(order, 3)
			return res.Send("Done!")
		},
	)

	rec := do(app, http.MethodGet, "/chain")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Done!", rec.Body.String())
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestNextPastLastHandlerIsNotFound(t *testing.T) {
	app := newApp(t)
	app.Get("/fallthrough", func(res *httpx.Response, req *http.Request, next httpx.Next) any {
		next()
		return nil
	})

	rec := do(app, http.MethodGet, "/fallthrough")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cannot GET /fallthrough", rec.Body.String())
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	app := newApp(t)
	rec := do(app, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Cannot GET /nowhere", rec.Body.String())
}

func TestDeferredWriteIsAwaited(t *testing.T) {
	app := newApp(t)
	app.Get("/callbacks/defer", func(res *httpx.Response, req *http.Request) any {
		time.AfterFunc(20*time.Millisecond, func() { _ = res.Send("Defer!") })
		return nil
	})

	rec := do(app, http.MethodGet, "/callbacks/defer")
	assert.Equal(t, "Defer!", rec.Body.String())
}

func TestStandardHandlersEndTheResponse(t *testing.T) {
	app := newApp(t)
	app.Get("/std", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Std", "yes")
		_, _ = w.Write([]byte("plain"))
	})
	app.Post("/std-handler", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := do(app, http.MethodGet, "/std")
	assert.Equal(t, "plain", rec.Body.String())
	assert.Equal(t, "yes", rec.Header().Get("X-Std"))

	rec = do(app, http.MethodPost, "/std-handler")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRegexRoutesExposeCaptures(t *testing.T) {
	app := newApp(t)
	app.Get(regexp.MustCompile(`^/devices/(?P<id>[0-9]+)/(on|off)$`),
		func(res *httpx.Response, req *http.Request) any {
			return res.Send(httpx.Param(req, "id") + ":" + httpx.Params(req).Get("$1"))
		})

	rec := do(app, http.MethodGet, "/devices/42/on")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42:on", rec.Body.String())

	rec = do(app, http.MethodPost, "/devices/42/on")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChiParamsThroughParam(t *testing.T) {
	app := newApp(t)
	app.Get("/users/{id}", func(res *httpx.Response, req *http.Request) any {
		return res.Send("user " + httpx.Param(req, "id"))
	})

	rec := do(app, http.MethodGet, "/users/7")
	assert.Equal(t, "user 7", rec.Body.String())
}

func TestRegistrationErrors(t *testing.T) {
	app := newApp(t)
	h := func(res *httpx.Response, req *http.Request) any { return nil }

	cases := []struct {
		name string
		verb string
		args []any
		want error
	}{
		{"missing path", "get", []any{h}, httpx.ErrMissingPath},
		{"two paths", "get", []any{"/a", "/b", h}, httpx.ErrDuplicatePath},
		{"no handlers", "get", []any{"/a"}, httpx.ErrNoHandlers},
		{"bad argument", "get", []any{"/a", 42}, httpx.ErrBadArgument},
		{"unknown verb", "fetch", []any{"/a", h}, httpx.ErrUnknownVerb},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := app.Register(tc.verb, tc.args...)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Panics(t, func() { app.Get("/only-a-path") })
}

func TestSetVerbReplacesRegistration(t *testing.T) {
	app := newApp(t)

	orig, ok := app.Verb("GET")
	require.True(t, ok)

	var seen int
	app.SetVerb("get", func(args ...any) error {
		seen = len(args)
		return orig(args...)
	})

	app.Get("/wrapped", func(res *httpx.Response, req *http.Request) any { return res.Send("ok") })
	assert.Equal(t, 2, seen)
	assert.Equal(t, "ok", do(app, http.MethodGet, "/wrapped").Body.String())
	assert.Contains(t, app.Verbs(), "get")
}

func TestPanicsBecomeServerErrors(t *testing.T) {
	app := newApp(t)
	app.Get("/panic", func(res *httpx.Response, req *http.Request) any { panic("boom") })

	rec := do(app, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDeadlineWithoutResponse(t *testing.T) {
	app := newApp(t)
	app.Get("/hang", func(res *httpx.Response, req *http.Request) any { return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hang", nil).WithContext(ctx))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestResponseFraming(t *testing.T) {
	cases := []struct {
		name string
		send func(res *httpx.Response) error
		ct   string
		body string
		code int
	}{
		{"string", func(res *httpx.Response) error { return res.Send("Hello") }, "text/html; charset=utf-8", "Hello", 200},
		{"bytes", func(res *httpx.Response) error { return res.Send([]byte{0x01, 0x02}) }, "application/octet-stream", "\x01\x02", 200},
		{"raw json", func(res *httpx.Response) error { return res.Send(json.RawMessage(`{"a":1}`)) }, "application/json; charset=utf-8", `{"a":1}`, 200},
		{"object", func(res *httpx.Response) error {
			return res.Send(map[string]any{"foo": []int{1, 2, 3}, "bar": "Bar!"})
		}, "application/json; charset=utf-8", `{"bar":"Bar!","foo":[1,2,3]}`, 200},
		{"nil", func(res *httpx.Response) error { return res.Send(nil) }, "", "", 200},
		{"status", func(res *httpx.Response) error { return res.SendStatus(http.StatusTeapot) }, "text/plain; charset=utf-8", "I'm a teapot", http.StatusTeapot},
		{"status then send", func(res *httpx.Response) error { return res.Status(http.StatusBadRequest).Send("Nope!") }, "text/html; charset=utf-8", "Nope!", http.StatusBadRequest},
		{"explicit type", func(res *httpx.Response) error {
			res.Header().Set("Content-Type", "text/csv")
			return res.Send("a,b")
		}, "text/csv", "a,b", 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newApp(t)
			app.Get("/", func(res *httpx.Response, req *http.Request) any {
				require.NoError(t, tc.send(res))
				assert.True(t, res.Finalized())
				return res
			})

			rec := do(app, http.MethodGet, "/")
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.ct, rec.Header().Get("Content-Type"))
			assert.Equal(t, tc.body, rec.Body.String())
		})
	}
}

func TestSecondSendIsRejected(t *testing.T) {
	app := newApp(t)

	var second error
	app.Get("/twice", func(res *httpx.Response, req *http.Request) any {
		_ = res.Send("first")
		second = res.Send("second")
		return nil
	})

	rec := do(app, http.MethodGet, "/twice")
	assert.Equal(t, "first", rec.Body.String())
	assert.ErrorIs(t, second, httpx.ErrAlreadySent)
}

func TestFailAnswersServerError(t *testing.T) {
	app := newApp(t)
	app.Get("/fail", func(res *httpx.Response, req *http.Request) any {
		res.Fail(assert.AnError)
		assert.ErrorIs(t, res.Err(), assert.AnError)
		return nil
	})

	rec := do(app, http.MethodGet, "/fail")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())
}

func TestRouteTimeoutOption(t *testing.T) {
	app := newApp(t)
	app.Get("/slow", httpx.Timeout(20*time.Millisecond), func(res *httpx.Response, req *http.Request) any {
		_, ok := req.Context().Deadline()
		assert.True(t, ok)
		return nil
	})
	app.Get("/fast", httpx.Timeout(time.Second), func(res *httpx.Response, req *http.Request) any {
		return res.Send("fast")
	})

	assert.Equal(t, http.StatusGatewayTimeout, do(app, http.MethodGet, "/slow").Code)
	assert.Equal(t, "fast", do(app, http.MethodGet, "/fast").Body.String())
}
