package core

import (
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-promised/pkg/promise"
	"go.uber.org/zap"
)

// Settings configures a Resolver. Zero fields fall back to defaults.
type Settings struct {
	// Promise adapts pending values to promise.Thenable.
	Promise promise.Family
	// IsPromise reports whether a result is pending. Defaults to asking Promise.
	IsPromise func(v any) bool
	// IsResolvable reports whether a result is plain data to send.
	IsResolvable func(v any) bool

	Resolve      SendFunc
	ResolveEmpty EmptyFunc
	Error        ErrorFunc

	// WrapFunctions names the verbs whose handlers get wrapped.
	WrapFunctions []string

	Logger   *zap.Logger
	Observer func(req *http.Request, o Outcome)
}

// Option mutates Settings.
type Option func(*Settings)

func WithPromise(f promise.Family) Option       { return func(s *Settings) { s.Promise = f } }
func WithIsPromise(fn func(any) bool) Option    { return func(s *Settings) { s.IsPromise = fn } }
func WithIsResolvable(fn func(any) bool) Option { return func(s *Settings) { s.IsResolvable = fn } }
func WithResolve(fn SendFunc) Option            { return func(s *Settings) { s.Resolve = fn } }
func WithResolveEmpty(fn EmptyFunc) Option      { return func(s *Settings) { s.ResolveEmpty = fn } }
func WithError(fn ErrorFunc) Option             { return func(s *Settings) { s.Error = fn } }
func WithLogger(l *zap.Logger) Option           { return func(s *Settings) { s.Logger = l } }

// WithWrapFunctions replaces the wrapped verb list. Names are case-insensitive.
func WithWrapFunctions(verbs ...string) Option {
	return func(s *Settings) {
		s.WrapFunctions = s.WrapFunctions[:0:0]
		for _, v := range verbs {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				s.WrapFunctions = append(s.WrapFunctions, v)
			}
		}
	}
}

// WithObserver adds fn to the outcome observers.
func WithObserver(fn func(*http.Request, Outcome)) Option {
	return func(s *Settings) {
		if fn == nil {
			return
		}
		prev := s.Observer
		if prev == nil {
			s.Observer = fn
			return
		}
		s.Observer = func(req *http.Request, o Outcome) {
			prev(req, o)
			fn(req, o)
		}
	}
}

// NewSettings applies opts over the defaults.
func NewSettings(opts ...Option) Settings {
	s := Settings{WrapFunctions: []string{"get"}}
	for _, o := range opts {
		if o != nil {
			o(&s)
		}
	}
	if s.Promise == nil {
		s.Promise = promise.Native
	}
	if s.IsPromise == nil {
		fam := s.Promise
		s.IsPromise = func(v any) bool {
			_, ok := fam.Thenable(v)
			return ok
		}
	}
	if s.IsResolvable == nil {
		s.IsResolvable = DefaultIsResolvable
	}
	if s.Resolve == nil {
		s.Resolve = DefaultResolve
	}
	if s.ResolveEmpty == nil {
		s.ResolveEmpty = DefaultResolveEmpty
	}
	if s.Error == nil {
		s.Error = DefaultError
	}
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	return s
}
