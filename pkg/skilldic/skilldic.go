// pkg/skilldic/skilldic.go
package skilldic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

func LoadDictionary(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var dic Dictionary
	if err := json.Unmarshal(data, &dic); err != nil {
		return nil, err
	}
	if err := dic.Validate(); err != nil {
		return nil, err
	}
	return &dic, nil
}

// Validate checks every entry carries a non-empty skill name and a vector of
// the declared dimension.
func (d *Dictionary) Validate() error {
	if d.Dimension <= 0 {
		return fmt.Errorf("dictionary dimension must be positive, got %d", d.Dimension)
	}
	seen := make(map[string]struct{}, len(d.Entries))
	for i, e := range d.Entries {
		name := strings.ToLower(strings.TrimSpace(e.Skill))
		if name == "" {
			return fmt.Errorf("entry %d: empty skill name", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("entry %d: duplicate skill %q", i, name)
		}
		seen[name] = struct{}{}
		if len(e.Vector) != d.Dimension {
			return fmt.Errorf("entry %d (%s): vector has %d components, expected %d", i, name, len(e.Vector), d.Dimension)
		}
	}
	return nil
}

// InMemory is a dictionary index keyed by normalized skill name. It backs the
// embedding lookups when no database is wired, and the loader tool.
type InMemory struct {
	dimension  int
	vectors    map[string][]float32
	categories map[string]string
}

func NewInMemory(dic *Dictionary) *InMemory {
	m := &InMemory{
		dimension:  dic.Dimension,
		vectors:    make(map[string][]float32, len(dic.Entries)),
		categories: make(map[string]string, len(dic.Entries)),
	}
	for _, e := range dic.Entries {
		name := strings.ToLower(strings.TrimSpace(e.Skill))
		m.vectors[name] = e.Vector
		m.categories[name] = e.Category
	}
	return m
}

func (m *InMemory) Dimension() int { return m.dimension }

func (m *InMemory) ResolveMany(_ context.Context, names []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(names))
	for _, name := range names {
		if vec, ok := m.vectors[strings.ToLower(strings.TrimSpace(name))]; ok {
			out[name] = vec
		}
	}
	return out, nil
}

// Categories returns skill names grouped by category, skipping entries
// without one.
func (m *InMemory) Categories() map[string][]string {
	out := make(map[string][]string)
	for skill, category := range m.categories {
		if category == "" {
			continue
		}
		out[category] = append(out[category], skill)
	}
	return out
}
