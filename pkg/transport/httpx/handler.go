package httpx

import "net/http"

// HandlerFunc is the host's native handler signature. The return value is
// ignored by the host itself; wrappers installed over a verb interpret it.
type HandlerFunc func(res *Response, req *http.Request, next Next) any

// Next runs the following handler registered under the same route.
// Calling it more than once has no further effect.
type Next func()

// RegisterFunc is the registration function behind one verb.
// Arguments are path tokens (string or *regexp.Regexp) and handlers.
type RegisterFunc func(args ...any) error

// AsHandler normalizes the handler shapes the App accepts.
//
// Standard library handlers end the response when they return, so they always
// report the response itself as their result.
func AsHandler(v any) (HandlerFunc, bool) {
	switch h := v.(type) {
	case HandlerFunc:
		return h, h != nil
	case func(*Response, *http.Request, Next) any:
		return h, h != nil
	case func(*Response, *http.Request) any:
		if h == nil {
			return nil, false
		}
		return func(res *Response, req *http.Request, _ Next) any { return h(res, req) }, true
	case http.HandlerFunc:
		if h == nil {
			return nil, false
		}
		return std(h), true
	case func(http.ResponseWriter, *http.Request):
		if h == nil {
			return nil, false
		}
		return std(http.HandlerFunc(h)), true
	case http.Handler:
		if h == nil {
			return nil, false
		}
		return std(h), true
	}
	return nil, false
}

func std(h http.Handler) HandlerFunc {
	return func(res *Response, req *http.Request, _ Next) any {
		h.ServeHTTP(res, req)
		if !res.Finalized() {
			_ = res.End()
		}
		return res
	}
}
