package logger

import (
	"net/http"
	"regexp"
	"strings"
	"sync"
)

const maxLoggedBody = 1 << 16

// Request bodies are logged only for routes that opt in, by exact path or
// by pattern. Nothing is allowlisted until routes are registered.
var (
	bodyLogMu       sync.RWMutex
	bodyLogPaths    = map[string]struct{}{}
	bodyLogPatterns []*regexp.Regexp
)

// AddBodyLogPaths allowlists exact request paths for body logging.
func AddBodyLogPaths(paths ...string) {
	bodyLogMu.Lock()
	defer bodyLogMu.Unlock()
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			bodyLogPaths[p] = struct{}{}
		}
	}
}

// AddBodyLogPatterns allowlists request paths matching any of res.
func AddBodyLogPatterns(res ...*regexp.Regexp) {
	bodyLogMu.Lock()
	defer bodyLogMu.Unlock()
	for _, re := range res {
		if re != nil {
			bodyLogPatterns = append(bodyLogPatterns, re)
		}
	}
}

func bodyLogAllowed(path string) bool {
	bodyLogMu.RLock()
	defer bodyLogMu.RUnlock()
	if _, ok := bodyLogPaths[path]; ok {
		return true
	}
	for _, re := range bodyLogPatterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

// shouldLogBody keeps to small JSON bodies of writes on allowlisted routes.
func shouldLogBody(r *http.Request, body []byte) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	if len(body) == 0 || len(body) > maxLoggedBody {
		return false
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return false
	}
	return bodyLogAllowed(r.URL.Path)
}
