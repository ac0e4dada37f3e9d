// Package species holds the immutable per-species constants shared by every agent of a species.
package species

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/shoal/config"
)

// Temperament is a flavor tag. It affects descriptions, not physics.
type Temperament string

const (
	Calm        Temperament = "calm"
	Playful     Temperament = "playful"
	Skittish    Temperament = "skittish"
	Curious     Temperament = "curious"
	Grumpy      Temperament = "grumpy"
	Aggressive  Temperament = "aggressive"
	Territorial Temperament = "territorial"
)

var knownTemperaments = map[Temperament]bool{
	Calm: true, Playful: true, Skittish: true, Curious: true,
	Grumpy: true, Aggressive: true, Territorial: true,
}

// Descriptor is one species record. Agents hold a pointer to it; it is never mutated after load.
type Descriptor struct {
	ID          string
	Name        string
	AdultSize   float64
	BaseSpeed   float64
	Predator    bool
	Temperament Temperament
	MaxGrowth   float64 // size cap as a multiple of AdultSize, >= 1
}

// MaxSize is the largest size an agent of this species can reach.
func (d *Descriptor) MaxSize() float64 {
	return d.AdultSize * d.MaxGrowth
}

// Catalog is the ordered set of species, looked up by identifier.
type Catalog struct {
	list []*Descriptor
	byID map[string]*Descriptor
}

// NewCatalog validates the records and builds a catalog. Order is preserved.
func NewCatalog(records []config.SpeciesConfig) (*Catalog, error) {
	c := &Catalog{
		list: make([]*Descriptor, 0, len(records)),
		byID: make(map[string]*Descriptor, len(records)),
	}
	for i, r := range records {
		d, err := fromConfig(r)
		if err != nil {
			return nil, fmt.Errorf("species[%d]: %w", i, err)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("species[%d]: duplicate id %q", i, d.ID)
		}
		c.list = append(c.list, d)
		c.byID[d.ID] = d
	}
	if len(c.list) == 0 {
		return nil, fmt.Errorf("species: catalog is empty")
	}
	return c, nil
}

// FromConfig builds the catalog from the loaded configuration.
func FromConfig(cfg *config.Config) (*Catalog, error) {
	return NewCatalog(cfg.Species)
}

func fromConfig(r config.SpeciesConfig) (*Descriptor, error) {
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	if r.AdultSize <= 0 {
		return nil, fmt.Errorf("species %q: adult_size must be > 0", id)
	}
	if r.BaseSpeed <= 0 {
		return nil, fmt.Errorf("species %q: base_speed must be > 0", id)
	}
	growth := r.MaxGrowth
	if growth == 0 {
		growth = 1
	}
	if growth < 1 {
		return nil, fmt.Errorf("species %q: max_growth must be >= 1", id)
	}
	temp := Temperament(strings.ToLower(strings.TrimSpace(r.Temperament)))
	if temp == "" {
		temp = Calm
	}
	if !knownTemperaments[temp] {
		return nil, fmt.Errorf("species %q: unknown temperament %q", id, r.Temperament)
	}
	name := r.Name
	if name == "" {
		name = id
	}
	return &Descriptor{
		ID:          id,
		Name:        name,
		AdultSize:   r.AdultSize,
		BaseSpeed:   r.BaseSpeed,
		Predator:    r.Predator,
		Temperament: temp,
		MaxGrowth:   growth,
	}, nil
}

// Get returns the species with the given id.
func (c *Catalog) Get(id string) (*Descriptor, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns the species in catalog order. The slice must not be modified.
func (c *Catalog) All() []*Descriptor {
	return c.list
}

// Len returns the number of species.
func (c *Catalog) Len() int {
	return len(c.list)
}

// At returns the i-th species in catalog order.
func (c *Catalog) At(i int) *Descriptor {
	return c.list[i]
}

// Predators returns the predator species in catalog order.
func (c *Catalog) Predators() []*Descriptor {
	return c.filter(true)
}

// Prey returns the non-predator species in catalog order.
func (c *Catalog) Prey() []*Descriptor {
	return c.filter(false)
}

func (c *Catalog) filter(predator bool) []*Descriptor {
	var out []*Descriptor
	for _, d := range c.list {
		if d.Predator == predator {
			out = append(out, d)
		}
	}
	return out
}
