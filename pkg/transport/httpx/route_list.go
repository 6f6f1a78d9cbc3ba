package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"sync"

	"github.com/go-chi/chi/v5"
)

// RouteList holds routes registered with a regular expression matcher.
// They are consulted, in registration order, when no chi route matched.
type RouteList struct {
	mu     sync.RWMutex
	routes []patternRoute
}

type patternRoute struct {
	method  string
	pattern *regexp.Regexp
	handler http.Handler
}

func (l *RouteList) add(method string, pattern *regexp.Regexp, h http.Handler) {
	l.mu.Lock()
	l.routes = append(l.routes, patternRoute{method: method, pattern: pattern, handler: h})
	l.mu.Unlock()
}

func (l *RouteList) match(req *http.Request) (http.Handler, url.Values, bool) {
	path := req.URL.EscapedPath()

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, rt := range l.routes {
		if rt.method != req.Method {
			continue
		}
		groups := rt.pattern.FindStringSubmatch(path)
		if groups == nil {
			continue
		}

		params := make(url.Values)
		names := rt.pattern.SubexpNames()
		for i, v := range groups[1:] {
			if name := names[i+1]; name != "" {
				params.Set(name, v)
				continue
			}
			params.Set(fmt.Sprintf("$%d", i), v)
		}
		return rt.handler, params, true
	}
	return nil, nil, false
}

type paramsKey struct{}

func withParams(req *http.Request, params url.Values) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), paramsKey{}, params))
}

// Params returns the captures of the regular expression route that matched
// req. Named groups use their name, unnamed ones "$<index>".
func Params(req *http.Request) url.Values {
	if v, ok := req.Context().Value(paramsKey{}).(url.Values); ok {
		return v
	}
	return url.Values{}
}

// Param looks name up in the regex captures first, then in chi URL params.
func Param(req *http.Request, name string) string {
	if v := Params(req).Get(name); v != "" {
		return v
	}
	return chi.URLParam(req, name)
}
