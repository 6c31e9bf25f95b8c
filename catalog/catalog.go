// Package catalog is an in-memory, thread-safe registry of named celestial
// objects. It resolves the names used by sessions and tools to Selection
// values; spatial queries (cone searches, octrees) are out of scope.
package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/skyforge/observer-engine/model"
)

// Catalog maps names to selections.
type Catalog struct {
	mu      sync.RWMutex
	objects map[string]model.Selection
}

// New constructs an empty catalog.
func New() *Catalog {
	return &Catalog{objects: make(map[string]model.Selection)}
}

// Add registers a selection under a name. It returns an error for empty
// names, empty selections, or duplicate names.
func (c *Catalog) Add(name string, sel model.Selection) error {
	if name == "" {
		return fmt.Errorf("catalog object must have a name")
	}
	if sel.Empty() {
		return fmt.Errorf("cannot register empty selection %q", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.objects[name]; exists {
		return fmt.Errorf("object with name %q already exists", name)
	}
	c.objects[name] = sel
	return nil
}

// AddBody registers a body under its own name.
func (c *Catalog) AddBody(b *model.Body) error {
	return c.Add(b.Name, model.Selection{Body: b})
}

// AddStar registers a star under its own name.
func (c *Catalog) AddStar(s *model.Star) error {
	return c.Add(s.Name, model.Selection{Star: s})
}

// AddLocation registers a surface location under its own name.
func (c *Catalog) AddLocation(l *model.Location) error {
	return c.Add(l.Name, model.Selection{Location: l})
}

// Find returns the selection registered under name, or the empty selection
// if the name is unknown.
func (c *Catalog) Find(name string) model.Selection {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.objects[name]
}

// Names returns the registered names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.objects))
	for name := range c.objects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered objects.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.objects)
}
