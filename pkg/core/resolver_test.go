package core_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/steeze-promised/pkg/core"
	"github.com/joeydtaylor/steeze-promised/pkg/promise"
	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
)

type point struct{ X, Y int }

func TestTruthy(t *testing.T) {
	var (
		nilPtr   *point
		nilMap   map[string]int
		nilSlice []int
		nilFunc  func()
		nilErr   error
	)
	falsy := []any{nil, false, "", 0, int8(0), uint(0), 0.0, float32(0), math.NaN(), nilPtr, nilMap, nilSlice, nilFunc, nilErr}
	for _, v := range falsy {
		assert.False(t, core.Truthy(v), "%T(%v)", v, v)
	}

	truthy := []any{true, "x", -1, uint8(3), 0.5, math.Inf(1), &point{}, point{}, map[string]int{}, []int{}, func() {}, time.Time{}, errors.New("e")}
	for _, v := range truthy {
		assert.True(t, core.Truthy(v), "%T(%v)", v, v)
	}
}

func TestDefaultIsResolvable(t *testing.T) {
	resolvable := []any{
		"Hello", true, 123, uint16(1), 1.5, time.Now(),
		[]byte("raw"), []int{1, 2, 3}, [2]string{"a", "b"},
		map[string]any{"foo": 1}, point{1, 2}, &point{1, 2}, &[]int{1},
	}
	for _, v := range resolvable {
		assert.True(t, core.DefaultIsResolvable(v), "%T", v)
	}

	var res *httpx.Response
	n := 1
	rejected := []any{nil, res, errors.New("e"), func() {}, make(chan int), &n, promise.Resolve("x")}
	for _, v := range rejected {
		assert.False(t, core.DefaultIsResolvable(v), "%T", v)
	}
}

func TestClassify(t *testing.T) {
	r := core.NewResolver()

	cases := []struct {
		in   any
		want core.Class
	}{
		{nil, core.ClassUnresolvable},
		{"", core.ClassUnresolvable},
		{0, core.ClassUnresolvable},
		{&httpx.Response{}, core.ClassUnresolvable},
		{func() {}, core.ClassUnresolvable},
		{promise.Resolve("x"), core.ClassPending},
		{promise.Reject(errors.New("x")), core.ClassPending},
		{errors.New("bad"), core.ClassFailure},
		{"Hello", core.ClassResolvable},
		{123, core.ClassResolvable},
		{map[string]any{"foo": []int{1, 2, 3}}, core.ClassResolvable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, r.Classify(tc.in), "%T(%v)", tc.in, tc.in)
	}
}

func TestDecide(t *testing.T) {
	r := core.NewResolver()

	o, pending := r.Decide("Hello")
	assert.Nil(t, pending)
	assert.Equal(t, core.Outcome{Kind: core.OutcomeSend, Payload: "Hello"}, o)

	o, pending = r.Decide(nil)
	assert.Nil(t, pending)
	assert.Equal(t, core.OutcomeNoop, o.Kind)

	boom := errors.New("boom")
	o, pending = r.Decide(boom)
	assert.Nil(t, pending)
	assert.Equal(t, core.Outcome{Kind: core.OutcomeError, Payload: boom}, o)

	_, pending = r.Decide(promise.Resolve("later"))
	require.NotNil(t, pending)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	v, err := promise.Await(ctx, pending)
	require.NoError(t, err)
	assert.Equal(t, "later", v)
}

func TestDecideWithoutContinuation(t *testing.T) {
	r := core.NewResolver(core.WithIsPromise(func(v any) bool {
		_, ok := v.(chan int)
		return ok
	}))

	o, pending := r.Decide(make(chan int))
	assert.Nil(t, pending)
	assert.Equal(t, core.OutcomeError, o.Kind)
	assert.ErrorIs(t, o.Payload.(error), core.ErrNotThenable)
}

func TestSettle(t *testing.T) {
	r := core.NewResolver()
	nope := errors.New("Nope!")

	cases := []struct {
		name    string
		v       any
		err     error
		hasNext bool
		want    core.Outcome
	}{
		{"truthy", "Done!", nil, true, core.Outcome{Kind: core.OutcomeSend, Payload: "Done!"}},
		{"truthy terminal", "Done!", nil, false, core.Outcome{Kind: core.OutcomeSend, Payload: "Done!"}},
		{"empty with next", nil, nil, true, core.Outcome{Kind: core.OutcomeAdvance}},
		{"empty terminal", nil, nil, false, core.Outcome{Kind: core.OutcomeSendEmpty}},
		{"zero terminal", 0, nil, false, core.Outcome{Kind: core.OutcomeSendEmpty}},
		{"rejected", nil, nope, true, core.Outcome{Kind: core.OutcomeError, Payload: nope}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.Settle(tc.v, tc.err, tc.hasNext))
		})
	}
}

func TestOutcomeKindString(t *testing.T) {
	assert.Equal(t, "noop", core.OutcomeNoop.String())
	assert.Equal(t, "advance", core.OutcomeAdvance.String())
	assert.Equal(t, "send", core.OutcomeSend.String())
	assert.Equal(t, "send_empty", core.OutcomeSendEmpty.String())
	assert.Equal(t, "error", core.OutcomeError.String())
	assert.Equal(t, "unknown", core.OutcomeKind(42).String())
}

func TestClassifyArgs(t *testing.T) {
	r := core.NewResolver()
	h := func(res *httpx.Response, req *http.Request) any { return nil }
	re := regexp.MustCompile(`^/x$`)

	entries, err := r.ClassifyArgs("get", []any{"/a", httpx.Timeout(time.Second), h, http.NotFoundHandler()})
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, core.EntryPath, entries[0].Kind)
	assert.Equal(t, "/a", entries[0].Value)
	assert.Equal(t, core.EntryOption, entries[1].Kind)
	assert.Equal(t, core.EntryHandler, entries[2].Kind)
	assert.NotNil(t, entries[2].Handler)
	assert.Equal(t, core.EntryHandler, entries[3].Kind)
	assert.Equal(t, 3, entries[3].Index)

	entries, err = r.ClassifyArgs("get", []any{re, h})
	require.NoError(t, err)
	assert.Same(t, re, entries[0].Value)
}

func TestClassifyArgsErrors(t *testing.T) {
	r := core.NewResolver()
	h := func(res *httpx.Response, req *http.Request) any { return nil }

	cases := []struct {
		name  string
		args  []any
		want  error
		index int
	}{
		{"bare promise", []any{"/p", promise.After(10*time.Millisecond, "Foo"), h}, core.ErrPendingArgument, 1},
		{"unsupported", []any{"/p", 42}, core.ErrUnsupportedArgument, 1},
		{"no handler", []any{"/p"}, core.ErrNoHandler, -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.ClassifyArgs("get", tc.args)
			require.ErrorIs(t, err, tc.want)

			var ae *core.ArgumentError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "get", ae.Verb)
			assert.Equal(t, tc.index, ae.Index)
		})
	}

	_, err := r.ClassifyArgs("get", []any{"/p", promise.Resolve(1)})
	assert.EqualError(t, err, "get: argument 1 (*promise.Promise[interface {}]): pending values cannot be used to construct a route; supply a factory function instead")
}

func TestSettingsDefaults(t *testing.T) {
	s := core.NewResolver().Settings()
	assert.Equal(t, []string{"get"}, s.WrapFunctions)
	assert.NotNil(t, s.Promise)
	assert.NotNil(t, s.IsPromise)
	assert.NotNil(t, s.IsResolvable)
	assert.NotNil(t, s.Resolve)
	assert.NotNil(t, s.ResolveEmpty)
	assert.NotNil(t, s.Error)
	assert.NotNil(t, s.Logger)

	s = core.NewResolver(core.WithWrapFunctions(" GET", "Post", "")).Settings()
	assert.Equal(t, []string{"get", "post"}, s.WrapFunctions)
}
