package achievement

import (
	"fmt"

	"rpg_tracker/internal/domain"
)

// Catalog is the read-only set of achievement definitions, in insertion
// order. It is built once at startup and shared between requests.
type Catalog struct {
	entries []domain.Achievement
	index   map[string]int
}

// NewCatalog validates defs and returns an immutable catalog. Unknown
// requirement kinds and duplicate ids are configuration errors.
func NewCatalog(defs ...domain.Achievement) (*Catalog, error) {
	c := &Catalog{
		entries: make([]domain.Achievement, 0, len(defs)),
		index:   make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		if d.ID == "" {
			return nil, fmt.Errorf("achievement #%d: empty id", i)
		}
		if _, dup := c.index[d.ID]; dup {
			return nil, fmt.Errorf("achievement %q: duplicate id", d.ID)
		}
		if !d.RequirementKind.Known() {
			return nil, fmt.Errorf("achievement %q: unknown requirement type %q", d.ID, d.RequirementKind)
		}
		if d.RequirementValue < 0 {
			return nil, fmt.Errorf("achievement %q: negative requirement value", d.ID)
		}
		d.SortOrder = i
		c.index[d.ID] = len(c.entries)
		c.entries = append(c.entries, d)
	}
	return c, nil
}

// MustCatalog is NewCatalog for static definitions.
func MustCatalog(defs ...domain.Achievement) *Catalog {
	c, err := NewCatalog(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

// Entries returns a copy of the definitions in insertion order.
func (c *Catalog) Entries() []domain.Achievement {
	out := make([]domain.Achievement, len(c.entries))
	copy(out, c.entries)
	return out
}

// Get looks up a definition by id.
func (c *Catalog) Get(id string) (domain.Achievement, bool) {
	i, ok := c.index[id]
	if !ok {
		return domain.Achievement{}, false
	}
	return c.entries[i], true
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.entries)
}
