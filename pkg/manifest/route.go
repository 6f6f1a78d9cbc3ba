package manifest

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Route describes a single HTTP route served by a chain of named handlers.
type Route struct {
	Path     string   `toml:"path"`
	Pattern  string   `toml:"pattern"` // regular expression, instead of path
	Method   string   `toml:"method"`
	Handlers []string `toml:"handlers"`
	Policy   Policy   `toml:"policy"`
}

// Policy holds per-route serving and observability settings.
type Policy struct {
	TimeoutMS int `toml:"timeout_ms"`
	// LogBody adds small JSON request bodies to the access log.
	LogBody bool `toml:"log_body"`
	// SkipMetrics leaves the route out of the HTTP request collectors.
	SkipMetrics bool `toml:"skip_metrics"`
}

// Target is the path or, for pattern routes, the pattern.
func (r *Route) Target() string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.Path
}

// normalize path/method/handler names
func (r *Route) normalize() error {
	switch {
	case r.Path == "" && r.Pattern == "":
		return errors.New("path or pattern is required")
	case r.Path != "" && r.Pattern != "":
		return errors.New("path and pattern are mutually exclusive")
	}
	if r.Path != "" {
		if !strings.HasPrefix(r.Path, "/") {
			r.Path = "/" + r.Path
		}
		if r.Path != "/" {
			r.Path = path.Clean(r.Path)
		}
	}
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" {
		r.Method = "GET"
	}
	for i, h := range r.Handlers {
		r.Handlers[i] = strings.TrimSpace(h)
	}
	return nil
}

// validate fields that are independent of global state.
func (r *Route) validate() error {
	if !knownVerb(strings.ToLower(r.Method)) {
		return fmt.Errorf("method %q not supported", r.Method)
	}
	if r.Pattern != "" {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fmt.Errorf("pattern: %w", err)
		}
	}
	if len(r.Handlers) == 0 {
		return errors.New("handlers must name at least one handler")
	}
	for i, h := range r.Handlers {
		if h == "" {
			return fmt.Errorf("handlers[%d] is empty", i)
		}
	}
	if r.Policy.TimeoutMS < 0 {
		return errors.New("policy.timeout_ms must be >= 0")
	}
	return nil
}
