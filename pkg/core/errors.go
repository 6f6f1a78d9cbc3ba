package core

import "fmt"

var (
	ErrPendingArgument     = errorString("pending values cannot be used to construct a route; supply a factory function instead")
	ErrUnsupportedArgument = errorString("unsupported argument type in route construction")
	ErrNoHandler           = errorString("route construction needs at least one handler")
	ErrNotThenable         = errorString("pending value has no continuation for the configured promise family")
	ErrUnknownVerb         = errorString("cannot wrap unknown verb")
	ErrUnknownHandler      = errorString("no handler registered under that name")
)

type errorString string

func (e errorString) Error() string { return string(e) }

// ArgumentError reports a route argument rejected at registration.
// Index is -1 when the error concerns the argument list as a whole.
type ArgumentError struct {
	Verb  string
	Index int
	Type  string
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Verb, e.Err)
	}
	return fmt.Sprintf("%s: argument %d (%s): %v", e.Verb, e.Index, e.Type, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }
