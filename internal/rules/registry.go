// Package rules loads the game rule set (derivation constants, reference
// file types, weapon categories) from embedded YAML.
package rules

import (
	"embed"
	"fmt"
	"os"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry serves the active rule set
type Registry struct {
	rules *Rules
	mu    sync.RWMutex
}

// NewRegistry creates a registry from the embedded default rules
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/default.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read default rules: %w", err)
	}

	r := &Registry{}
	if err := r.load(data); err != nil {
		return nil, fmt.Errorf("failed to load default rules: %w", err)
	}
	return r, nil
}

// LoadFile replaces the active rules with the content of a YAML file
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := r.load(data); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func (r *Registry) load(data []byte) error {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return err
	}
	for id, wt := range rules.WeaponTypes {
		if wt == nil {
			return fmt.Errorf("weapon type %s has no definition", id)
		}
		wt.ID = id
	}
	if err := rules.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	r.rules = &rules
	r.mu.Unlock()
	return nil
}

func (rs *Rules) validate() error {
	c := rs.Character
	switch {
	case c.FileType == "":
		return fmt.Errorf("character.file_type is required")
	case c.WoundSlots < 0:
		return fmt.Errorf("character.wound_slots must not be negative")
	case c.MinLevel < 1 || c.MaxLevel < c.MinLevel:
		return fmt.Errorf("character level range %d..%d is invalid", c.MinLevel, c.MaxLevel)
	case rs.Reference.ProfileFileType == "" || rs.Reference.RaceFileType == "":
		return fmt.Errorf("reference profile and race file types are required")
	}
	for id, wt := range rs.WeaponTypes {
		for _, trait := range []string{wt.AttackTrait, wt.DamageTrait} {
			if trait != "" && !IsTrait(trait) {
				return fmt.Errorf("weapon type %s references unknown trait %q", id, trait)
			}
		}
	}
	return nil
}

// Rules returns the active rule set. Callers must not modify it.
func (r *Registry) Rules() *Rules {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rules
}

// WeaponType returns the definition of a weapon category
func (r *Registry) WeaponType(id string) (*WeaponType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	wt, ok := r.rules.WeaponTypes[id]
	return wt, ok
}

// IsItemType reports whether fileType belongs to the equipment table
func (r *Registry) IsItemType(fileType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.rules.Reference.ItemTypes, fileType)
}

// IsTrait reports whether name is one of the three traits
func IsTrait(name string) bool {
	switch name {
	case TraitAddress, TraitSpirit, TraitPower:
		return true
	}
	return false
}
