package status

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Metadata is the static display information for a status.
type Metadata struct {
	Label       string `yaml:"label" json:"label"`
	Description string `yaml:"description" json:"description"`
	Icon        string `yaml:"icon" json:"icon"`
}

type MetadataTable map[Status]Metadata

//go:embed metadata.yaml
var defaultMetadata []byte

// Lookup never fails; unknown statuses fall back to their raw token.
func (t MetadataTable) Lookup(s Status) Metadata {
	if m, ok := t[s]; ok {
		return m
	}
	return Metadata{Label: string(s)}
}

// DefaultMetadata returns the built-in table.
func DefaultMetadata() MetadataTable {
	t, err := parseMetadata(defaultMetadata)
	if err != nil {
		panic("status: embedded metadata is invalid: " + err.Error())
	}
	return t
}

// LoadMetadata reads an override file on top of the built-in table.
// An empty path returns the built-in table.
func LoadMetadata(path string) (MetadataTable, error) {
	t := DefaultMetadata()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read status metadata: %w", err)
	}
	override, err := parseMetadata(b)
	if err != nil {
		return nil, err
	}
	for s, m := range override {
		base := t[s]
		if m.Label != "" {
			base.Label = m.Label
		}
		if m.Description != "" {
			base.Description = m.Description
		}
		if m.Icon != "" {
			base.Icon = m.Icon
		}
		t[s] = base
	}
	return t, nil
}

func parseMetadata(b []byte) (MetadataTable, error) {
	var raw map[string]Metadata
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse status metadata: %w", err)
	}
	t := make(MetadataTable, len(raw))
	for k, m := range raw {
		s, err := ParseStatus(k)
		if err != nil {
			return nil, fmt.Errorf("parse status metadata: %w", err)
		}
		t[s] = m
	}
	return t, nil
}
