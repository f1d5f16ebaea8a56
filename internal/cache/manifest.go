package cache

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest lists the shell URLs to precache during Install.
type Manifest struct {
	Shell []string `yaml:"shell"`
}

// LoadManifest reads a precache manifest from a YAML file. A missing
// file is an empty manifest, not an error.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Manifest{}, nil
	}

	if err != nil {
		return Manifest{}, fmt.Errorf("read precache manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse precache manifest: %w", err)
	}

	return m, nil
}
