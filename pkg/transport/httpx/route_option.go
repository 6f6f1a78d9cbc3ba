package httpx

import (
	"context"
	"net/http"
	"time"
)

// RouteOption adjusts how a single route is served. Options are passed to
// registration functions alongside the path and handlers.
type RouteOption func(*routeConfig)

type routeConfig struct {
	timeout time.Duration
}

// Timeout gives every request on the route a deadline. A chain that has not
// responded by then is answered with 504.
func Timeout(d time.Duration) RouteOption {
	return func(c *routeConfig) { c.timeout = d }
}

func withTimeout(next http.Handler, d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
