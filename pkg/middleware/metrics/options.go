package metrics

import (
	"net/http"
	"regexp"
	"strings"
	"sync"
)

// pathRules matches a request path against exact paths, then patterns.
type pathRules struct {
	mu       sync.RWMutex
	exact    map[string]struct{}
	patterns []*regexp.Regexp
}

func newPathRules(paths ...string) *pathRules {
	r := &pathRules{exact: map[string]struct{}{}}
	r.add(paths, nil)
	return r
}

func (r *pathRules) add(paths []string, patterns []*regexp.Regexp) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			r.exact[p] = struct{}{}
		}
	}
	for _, re := range patterns {
		if re != nil {
			r.patterns = append(r.patterns, re)
		}
	}
}

// match returns the rule that p satisfies: p itself or the pattern source.
func (r *pathRules) match(p string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.exact[p]; ok {
		return p, true
	}
	for _, re := range r.patterns {
		if re.MatchString(p) {
			return re.String(), true
		}
	}
	return "", false
}

var (
	// the scrape and heartbeat endpoints are never counted
	skipped = newPathRules("/metrics", "/ping")
	// pattern routes are labelled by their pattern
	grouped = newPathRules()

	normMu         sync.RWMutex
	pathNormalizer = func(r *http.Request) string { return r.URL.Path }
)

// AddMetricsSkipPaths leaves requests to paths out of the HTTP collectors.
func AddMetricsSkipPaths(paths ...string) { skipped.add(paths, nil) }

// AddMetricsSkipPatterns leaves requests whose path matches one of res out
// of the HTTP collectors.
func AddMetricsSkipPatterns(res ...*regexp.Regexp) { skipped.add(nil, res) }

// GroupPatterns reports requests whose path matches one of res under the
// pattern source in the uri label, so captured segments do not each get a
// series.
func GroupPatterns(res ...*regexp.Regexp) { grouped.add(nil, res) }

// SetPathNormalizer replaces how paths outside grouped patterns are
// labelled. By default it returns r.URL.Path unchanged.
func SetPathNormalizer(fn func(*http.Request) string) {
	if fn == nil {
		return
	}
	normMu.Lock()
	pathNormalizer = fn
	normMu.Unlock()
}

func isSkipPath(r *http.Request) bool {
	_, ok := skipped.match(r.URL.Path)
	return ok
}

func normalizePath(r *http.Request) string {
	if label, ok := grouped.match(r.URL.Path); ok {
		return label
	}
	normMu.RLock()
	fn := pathNormalizer
	normMu.RUnlock()
	return fn(r)
}
