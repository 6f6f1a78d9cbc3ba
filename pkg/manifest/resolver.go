package manifest

import (
	"fmt"
	"strings"
)

// Verbs lists the verb names a resolver can wrap.
var Verbs = []string{"get", "post", "put", "delete", "patch", "head", "options"}

// Resolver configures result resolution. Zero values mean defaults.
type Resolver struct {
	WrapFunctions []string `toml:"wrap_functions"`
	ErrorStatus   int      `toml:"error_status"` // 4xx, default 400
	EmptyStatus   int      `toml:"empty_status"` // 2xx, default 200
}

func (r *Resolver) normalize() error {
	for i, v := range r.WrapFunctions {
		v = strings.ToLower(strings.TrimSpace(v))
		if !knownVerb(v) {
			return fmt.Errorf("wrap_functions[%d]: unknown verb %q", i, r.WrapFunctions[i])
		}
		r.WrapFunctions[i] = v
	}
	if r.ErrorStatus != 0 && (r.ErrorStatus < 400 || r.ErrorStatus > 499) {
		return fmt.Errorf("error_status %d must be a 4xx code", r.ErrorStatus)
	}
	if r.EmptyStatus != 0 && (r.EmptyStatus < 200 || r.EmptyStatus > 299) {
		return fmt.Errorf("empty_status %d must be a 2xx code", r.EmptyStatus)
	}
	return nil
}

func knownVerb(v string) bool {
	for _, k := range Verbs {
		if k == v {
			return true
		}
	}
	return false
}
