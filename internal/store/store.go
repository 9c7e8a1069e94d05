// Package store implements the engine's external persistence
// contracts as flat yaml files: the classification override map and
// the per-account mixed-cost settings. Both are read at startup and
// rewritten whole on every change; a missing or empty file means
// computed defaults apply everywhere.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/avillarreal/equilibrio/internal/domain"
)

// OverrideStore persists manual and cascaded classification overrides.
type OverrideStore struct {
	path string
}

// NewOverrideStore points the store at a yaml file.
func NewOverrideStore(path string) *OverrideStore {
	return &OverrideStore{path: path}
}

// Load reads the override map. A missing file yields an empty map.
func (s *OverrideStore) Load() (map[string]domain.Role, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]domain.Role{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides %s: %w", s.path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse overrides: %w", err)
	}

	overrides := make(map[string]domain.Role, len(raw))
	for code, tag := range raw {
		role, err := domain.ParseRole(tag)
		if err != nil {
			return nil, fmt.Errorf("override for %s: %w", code, err)
		}
		overrides[code] = role
	}
	return overrides, nil
}

// Save writes the full override map, replacing the previous file.
func (s *OverrideStore) Save(overrides map[string]domain.Role) error {
	raw := make(map[string]string, len(overrides))
	for code, role := range overrides {
		raw[code] = role.String()
	}
	return writeYAML(s.path, raw)
}

// MixedSettingsStore persists per-account mixed-cost decompositions,
// whether user-edited or produced by auto-analysis.
type MixedSettingsStore struct {
	path string
}

// NewMixedSettingsStore points the store at a yaml file.
func NewMixedSettingsStore(path string) *MixedSettingsStore {
	return &MixedSettingsStore{path: path}
}

// Load reads the settings map. A missing file yields an empty map.
func (s *MixedSettingsStore) Load() (map[string]domain.MixedCostSettings, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]domain.MixedCostSettings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mixed-cost settings %s: %w", s.path, err)
	}

	var settings map[string]domain.MixedCostSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse mixed-cost settings: %w", err)
	}
	if settings == nil {
		settings = map[string]domain.MixedCostSettings{}
	}
	return settings, nil
}

// Save writes the full settings map, replacing the previous file.
func (s *MixedSettingsStore) Save(settings map[string]domain.MixedCostSettings) error {
	return writeYAML(s.path, settings)
}

// writeYAML writes through a temp file and rename so a crashed write
// never leaves a half-written store behind.
func writeYAML(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
