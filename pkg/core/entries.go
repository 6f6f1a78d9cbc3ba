package core

import (
	"fmt"
	"regexp"

	"github.com/joeydtaylor/steeze-promised/pkg/transport/httpx"
)

// EntryKind tags a classified route argument.
type EntryKind int

const (
	// EntryPath is a path pattern or matcher, passed through unchanged.
	EntryPath EntryKind = iota
	// EntryOption is a per-route option, passed through unchanged.
	EntryOption
	// EntryHandler is a handler that gets wrapped.
	EntryHandler
)

// Entry is one route argument after classification.
type Entry struct {
	Kind    EntryKind
	Index   int
	Value   any
	Handler httpx.HandlerFunc
}

// ClassifyArgs sorts route arguments in a single pass. Pending values are
// rejected outright; a route needs at least one handler.
func (r *Resolver) ClassifyArgs(verb string, args []any) ([]Entry, error) {
	entries := make([]Entry, 0, len(args))
	handlers := 0
	for i, arg := range args {
		switch arg.(type) {
		case string, *regexp.Regexp:
			entries = append(entries, Entry{Kind: EntryPath, Index: i, Value: arg})
			continue
		case httpx.RouteOption:
			entries = append(entries, Entry{Kind: EntryOption, Index: i, Value: arg})
			continue
		}
		if r.s.IsPromise(arg) {
			return nil, &ArgumentError{Verb: verb, Index: i, Type: fmt.Sprintf("%T", arg), Err: ErrPendingArgument}
		}
		if h, ok := httpx.AsHandler(arg); ok {
			entries = append(entries, Entry{Kind: EntryHandler, Index: i, Value: arg, Handler: h})
			handlers++
			continue
		}
		return nil, &ArgumentError{Verb: verb, Index: i, Type: fmt.Sprintf("%T", arg), Err: ErrUnsupportedArgument}
	}
	if handlers == 0 {
		return nil, &ArgumentError{Verb: verb, Index: -1, Err: ErrNoHandler}
	}
	return entries, nil
}
