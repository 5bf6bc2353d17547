// Package classify maps SPL values to discrete severity bands and to colours
// on continuous gradients. Inputs outside a domain are clamped, never rejected.
package classify

import (
	"errors"
	"fmt"
	"math"

	"github.com/BROKENGroupe/soundmap/pkg/models"
)

// DefaultBands are the editor's five severity bands.
var DefaultBands = []models.Band{
	{Min: 0, Max: 30, Color: models.MustHex("#00bcd4"), Label: "Muy bajo"},
	{Min: 31, Max: 50, Color: models.MustHex("#4caf50"), Label: "Bajo"},
	{Min: 51, Max: 65, Color: models.MustHex("#ffeb3b"), Label: "Moderado"},
	{Min: 66, Max: 80, Color: models.MustHex("#ff9800"), Label: "Alto"},
	{Min: 81, Max: 100, Color: models.MustHex("#f44336"), Label: "Crítico"},
}

// Classifier assigns a band to any dB value.
type Classifier struct {
	bands []models.Band
}

// NewClassifier validates that bands are non-empty, ascending and
// non-overlapping.
func NewClassifier(bands []models.Band) (*Classifier, error) {
	if len(bands) == 0 {
		return nil, errors.New("at least one band is required")
	}
	for i, b := range bands {
		if b.Min > b.Max {
			return nil, fmt.Errorf("band %q: min %v above max %v", b.Label, b.Min, b.Max)
		}
		if i > 0 && bands[i-1].Max > b.Min {
			return nil, fmt.Errorf("band %q overlaps %q", b.Label, bands[i-1].Label)
		}
	}
	return &Classifier{bands: append([]models.Band(nil), bands...)}, nil
}

var defaultClassifier = func() *Classifier {
	c, err := NewClassifier(DefaultBands)
	if err != nil {
		panic(err)
	}
	return c
}()

// Band returns the band for db. Values are clamped to the covered range, and a
// value falling in a gap between two bands belongs to the lower one.
func (c *Classifier) Band(db float64) models.Band {
	first, last := c.bands[0], c.bands[len(c.bands)-1]
	switch {
	case math.IsNaN(db) || db <= first.Min:
		return first
	case db >= last.Max:
		return last
	}
	for i := 0; i < len(c.bands)-1; i++ {
		if db < c.bands[i+1].Min {
			return c.bands[i]
		}
	}
	return last
}

// Bands returns a copy of the configured bands.
func (c *Classifier) Bands() []models.Band {
	return append([]models.Band(nil), c.bands...)
}

// ClassifyBand classifies db against DefaultBands.
func ClassifyBand(db float64) models.Band {
	return defaultClassifier.Band(db)
}

// ColorByDecibel is the four-colour quick scale used for point markers.
func ColorByDecibel(db float64) models.RGB {
	switch {
	case db < 40:
		return models.MustHex("#1a9850")
	case db < 60:
		return models.MustHex("#fee08b")
	case db < 80:
		return models.MustHex("#fc8d59")
	}
	return models.MustHex("#d73027")
}
