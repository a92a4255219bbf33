// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OperatorConfig is the operator-facing, hand-edited configuration for a
// directory client. Unlike Parameters (consensus-supplied, machine
// round-tripped), this file is meant to be read and written by a human, so
// it is kept in YAML rather than the JSON the rest of this codebase's
// ancestry uses for machine state.
type OperatorConfig struct {
	// EntryNodes lists identity tokens (see the identity package's
	// verbose-nickname forms) an operator restricts guard selection to.
	// Empty means no restriction.
	EntryNodes []string `yaml:"entry_nodes,omitempty"`

	// ExitNodes restricts exit selection the same way EntryNodes
	// restricts guard selection.
	ExitNodes []string `yaml:"exit_nodes,omitempty"`

	// FamilySets declares additional family groupings beyond what relays
	// announce themselves; each inner slice is one family.
	FamilySets [][]string `yaml:"family_sets,omitempty"`

	// PathsNeededToBuildCircuits overrides the consensus-derived
	// readiness threshold when >= 0. A negative value (the zero value
	// decremented, see DefaultOperatorConfig) means "use the consensus
	// parameter instead".
	PathsNeededToBuildCircuits float64 `yaml:"paths_needed_to_build_circuits"`
}

// DefaultOperatorConfig returns a config with no restrictions and no
// threshold override.
func DefaultOperatorConfig() OperatorConfig {
	return OperatorConfig{
		PathsNeededToBuildCircuits: -1,
	}
}

// LoadOperatorConfigFromFile reads and parses a YAML operator config file.
func LoadOperatorConfigFromFile(path string) (OperatorConfig, error) {
	cfg := DefaultOperatorConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return OperatorConfig{}, fmt.Errorf("reading operator config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return OperatorConfig{}, fmt.Errorf("parsing operator config %q: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes cfg back out as YAML, preserving the operator's
// hand-editable format across a load/modify/save round trip.
func (cfg OperatorConfig) SaveToFile(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling operator config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing operator config %q: %w", path, err)
	}
	return nil
}
