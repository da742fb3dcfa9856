// Package persona manages the stakeholder persona catalog and the resolution
// rules that turn a start request into one stakeholder profile string.
package persona

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrPersonaNotFound is returned when a persona id is not in the catalog.
var ErrPersonaNotFound = fmt.Errorf("persona not found")

// ErrNoProfile is returned when a request carries neither an inline profile
// nor a persona id.
var ErrNoProfile = fmt.Errorf("provide either an inline stakeholder profile or a persona id")

// Definition describes one catalog persona.
type Definition struct {
	ID             string `json:"id" yaml:"id"`
	Title          string `json:"title" yaml:"title"`
	Profile        string `json:"profile" yaml:"profile"`
	AgeDemography  string `json:"age_demography" yaml:"age_demography"`
	TechSavviness  string `json:"tech_savviness" yaml:"tech_savviness"`
	ProductContext string `json:"product_context" yaml:"product_context"`
}

// Catalog is an immutable set of personas loaded at startup.
type Catalog struct {
	personas []Definition
	byID     map[string]Definition
}

// NewCatalog builds a catalog from definitions. Ids must be unique and
// non-empty.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{byID: map[string]Definition{}}
	for _, d := range defs {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("persona %q has no id", d.Title)
		}
		if strings.TrimSpace(d.Profile) == "" {
			return nil, fmt.Errorf("persona %q has no profile", d.ID)
		}
		if _, ok := c.byID[d.ID]; ok {
			return nil, fmt.Errorf("duplicate persona id %q", d.ID)
		}
		c.byID[d.ID] = d
		c.personas = append(c.personas, d)
	}
	return c, nil
}

// Load reads a persona catalog file. JSON and YAML are supported, chosen by
// file extension; both hold a flat array of definitions.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona file: %w", err)
	}
	var defs []Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("parse persona file %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &defs); err != nil {
			return nil, fmt.Errorf("parse persona file %s: %w", path, err)
		}
	}
	return NewCatalog(defs)
}

// All returns the personas in file order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.personas))
	copy(out, c.personas)
	return out
}

// Get returns the persona with the id.
func (c *Catalog) Get(id string) (Definition, error) {
	d, ok := c.byID[id]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrPersonaNotFound, id)
	}
	return d, nil
}

// ResolveProfile picks the stakeholder profile for a start request. An inline
// customer persona wins over an inline stakeholder profile, which wins over a
// catalog lookup by id. A nil catalog only supports inline profiles.
func (c *Catalog) ResolveProfile(customerPersona, stakeholderProfile, personaID string) (string, error) {
	if p := strings.TrimSpace(customerPersona); p != "" {
		return p, nil
	}
	if p := strings.TrimSpace(stakeholderProfile); p != "" {
		return p, nil
	}
	if strings.TrimSpace(personaID) == "" {
		return "", ErrNoProfile
	}
	if c == nil {
		return "", fmt.Errorf("%w: %s (no catalog configured)", ErrPersonaNotFound, personaID)
	}
	d, err := c.Get(personaID)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(d.Profile), nil
}
