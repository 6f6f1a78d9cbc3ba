package manifest

import "fmt"

// Config is the top-level manifest.
type Config struct {
	Resolver Resolver `toml:"resolver"`
	Routes   []Route  `toml:"route"`
}

// Validate normalizes the manifest in place and reports the first problem.
func (c *Config) Validate() error {
	if err := c.Resolver.normalize(); err != nil {
		return fmt.Errorf("resolver: %w", err)
	}
	if len(c.Routes) == 0 {
		return fmt.Errorf("at least one [[route]] is required")
	}

	seen := make(map[string]int, len(c.Routes))
	for i := range c.Routes {
		rt := &c.Routes[i]
		if err := rt.normalize(); err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}
		if err := rt.validate(); err != nil {
			return fmt.Errorf("route %d (%s %s): %w", i, rt.Method, rt.Target(), err)
		}
		key := rt.Method + " " + rt.Target()
		if j, dup := seen[key]; dup {
			return fmt.Errorf("route %d (%s): duplicates route %d", i, key, j)
		}
		seen[key] = i
	}
	return nil
}
