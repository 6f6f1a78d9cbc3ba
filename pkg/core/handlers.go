// core/handlers.go
package core

import (
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]any{}
)

// Register makes a handler available under a name referenced in manifest.toml.
// h may be any shape the host accepts as a handler; a later call with the
// same name replaces the earlier one.
func Register(name string, h any) {
	registryMu.Lock()
	registry[name] = h
	registryMu.Unlock()
}

// Lookup retrieves a registered handler by name.
func Lookup(name string) (any, bool) {
	registryMu.RLock()
	h, ok := registry[name]
	registryMu.RUnlock()
	return h, ok
}

// Registered lists the registered handler names.
func Registered() []string {
	registryMu.RLock()
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	registryMu.RUnlock()
	sort.Strings(out)
	return out
}
