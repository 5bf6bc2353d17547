// Package materials provides the read-only acoustic material catalog and the
// rules that resolve a wall's effective absorption coefficient.
package materials

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

const (
	// DefaultAbsorption is used for walls with no material or an unknown one.
	// It corresponds to the 25 dB fallback wall loss of the editor.
	DefaultAbsorption = 0.25

	// TransmissionLossScale converts an absorption ratio into a wall
	// transmission loss in dB: loss = absorption * TransmissionLossScale.
	TransmissionLossScale = 100.0
)

// Catalog is a read-only material lookup.
type Catalog interface {
	Lookup(id string) (models.MaterialEntry, bool)
	Absorption(id string) float64
	List() []models.MaterialEntry
}

type mapCatalog struct {
	entries map[string]models.MaterialEntry
}

// NewCatalog builds an immutable catalog. Later entries replace earlier ones
// with the same id.
func NewCatalog(entries ...models.MaterialEntry) (Catalog, error) {
	m := make(map[string]models.MaterialEntry, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("material %q has no id", e.Name)
		}
		if !(e.Absorption >= 0 && e.Absorption <= 1) {
			return nil, fmt.Errorf("material %s: absorption %v outside [0,1]", e.ID, e.Absorption)
		}
		m[e.ID] = e
	}
	return &mapCatalog{entries: m}, nil
}

var defaultEntries = []models.MaterialEntry{
	{ID: "glass", Name: "Vidrio", Absorption: 0.05},
	{ID: "concrete", Name: "Concreto", Absorption: 0.1},
	{ID: "wood", Name: "Madera", Absorption: 0.3},
	{ID: "acoustic_foam", Name: "Espuma acústica", Absorption: 0.9},
	{ID: "heavy_curtain", Name: "Cortina gruesa", Absorption: 0.6},
}

// Default returns the built-in catalog.
func Default() Catalog {
	c, err := NewCatalog(defaultEntries...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *mapCatalog) Lookup(id string) (models.MaterialEntry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

func (c *mapCatalog) Absorption(id string) float64 {
	if e, ok := c.entries[id]; ok {
		return e.Absorption
	}
	return DefaultAbsorption
}

// List returns the entries sorted by id.
func (c *mapCatalog) List() []models.MaterialEntry {
	out := make([]models.MaterialEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type catalogFile struct {
	Materials []catalogEntry `yaml:"materials"`
}

// catalogEntry accepts either an absorption ratio or a legacy wall loss in dB.
type catalogEntry struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Absorption *float64 `yaml:"absorption"`
	WallLoss   *float64 `yaml:"wall_loss"`
}

func (e catalogEntry) entry() (models.MaterialEntry, error) {
	m := models.MaterialEntry{ID: e.ID, Name: e.Name, Absorption: DefaultAbsorption}
	switch {
	case e.Absorption != nil && e.WallLoss != nil:
		return m, fmt.Errorf("material %s: set absorption or wall_loss, not both", e.ID)
	case e.Absorption != nil:
		m.Absorption = *e.Absorption
	case e.WallLoss != nil:
		if !(*e.WallLoss >= 0) {
			return m, fmt.Errorf("material %s: negative wall_loss %v", e.ID, *e.WallLoss)
		}
		m.Absorption = FromTransmissionLoss(*e.WallLoss)
	}
	return m, nil
}

// LoadFile reads a YAML catalog and layers it over the built-in entries.
//
//	materials:
//	  - id: cork
//	    name: Corcho
//	    absorption: 0.45
//	  - id: drywall
//	    name: Tablaroca
//	    wall_loss: 20
func LoadFile(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read material catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and layers it over the built-in entries.
// A wall_loss in dB is converted with FromTransmissionLoss.
func Parse(data []byte) (Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse material catalog: %w", err)
	}
	entries := append([]models.MaterialEntry{}, defaultEntries...)
	for _, raw := range f.Materials {
		e, err := raw.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return NewCatalog(entries...)
}
