package core

import (
	"errors"
	"fmt"
	"os"

	manifest "github.com/joeydtaylor/steeze-promised/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
)

// LoadConfig reads and validates the route manifest at path. Unknown keys
// are rejected; errors name the file and, for syntax errors, the position.
func LoadConfig(path string) (manifest.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("manifest: %w", err)
	}
	defer f.Close()

	var cfg manifest.Config
	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return manifest.Config{}, fmt.Errorf("manifest %s:%d:%d: %w", path, row, col, err)
		}
		return manifest.Config{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, fmt.Errorf("manifest %s: %w", path, err)
	}
	return cfg, nil
}
