// Filter catalog: named filters, their ordered parameter descriptors and
// the static capability table.
package catalog

import (
	"sort"
	"sync"

	"github.com/juju/errors"
)

// ParameterKind is the value type a parameter accepts.
type ParameterKind string

const (
	KindNumber  ParameterKind = "number"
	KindColor   ParameterKind = "color"
	KindVector  ParameterKind = "vector"
	KindImage   ParameterKind = "image"
	KindBoolean ParameterKind = "boolean"
	KindString  ParameterKind = "string"
)

// Parameter describes a filter parameter for validation and UI generation.
type Parameter struct {
	Name        string        `yaml:"name" json:"name"`
	Kind        ParameterKind `yaml:"kind" json:"kind"`
	Required    bool          `yaml:"required" json:"required"`
	Min         *float64      `yaml:"min,omitempty" json:"min,omitempty"`
	Max         *float64      `yaml:"max,omitempty" json:"max,omitempty"`
	Default     interface{}   `yaml:"default,omitempty" json:"default,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
}

// Filter is a named image transformation and its declared parameters, in
// declaration order.
type Filter struct {
	Name        string      `yaml:"name" json:"name"`
	DisplayName string      `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	Category    string      `yaml:"category,omitempty" json:"category,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Parameters  []Parameter `yaml:"parameters" json:"parameters"`
}

// Parameter looks up a descriptor by name.
func (f Filter) Parameter(name string) (Parameter, bool) {
	for _, p := range f.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Validate checks descriptor names are present and unique.
func (f Filter) Validate() error {
	if f.Name == "" {
		return errors.NotValidf("filter without name")
	}
	seen := make(map[string]bool, len(f.Parameters))
	for _, p := range f.Parameters {
		if p.Name == "" {
			return errors.NotValidf("parameter without name in filter %q", f.Name)
		}
		if seen[p.Name] {
			return errors.NotValidf("duplicate parameter %q in filter %q", p.Name, f.Name)
		}
		seen[p.Name] = true
		if p.Min != nil && p.Max != nil && *p.Min > *p.Max {
			return errors.NotValidf("range of parameter %q in filter %q", p.Name, f.Name)
		}
	}
	return nil
}

// Availability reports whether the application can run a filter.
type Availability struct {
	Available bool
	Reason    string
}

// Catalog is loaded once at startup and is read-only afterwards, though
// registration is safe for concurrent use.
type Catalog struct {
	mu          sync.RWMutex
	filters     map[string]Filter
	unavailable map[string]string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{
		filters:     make(map[string]Filter),
		unavailable: make(map[string]string),
	}
}

// Register adds or replaces a filter.
func (c *Catalog) Register(f Filter) error {
	if err := f.Validate(); err != nil {
		return errors.Trace(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters[f.Name] = f
	return nil
}

// MarkUnavailable records a filter the application cannot run.
func (c *Catalog) MarkUnavailable(name, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unavailable[name] = reason
}

func (c *Catalog) Get(name string) (Filter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.filters[name]
	return f, ok
}

// Names returns all filter names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.filters))
	for name := range c.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory groups filter names by category. Filters without a category
// are listed under "Other".
func (c *Catalog) ByCategory() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string][]string)
	for name, f := range c.filters {
		category := f.Category
		if category == "" {
			category = "Other"
		}
		result[category] = append(result[category], name)
	}
	for _, names := range result {
		sort.Strings(names)
	}
	return result
}

// Availability consults the capability table.
func (c *Catalog) Availability(name string) Availability {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if reason, ok := c.unavailable[name]; ok {
		return Availability{Reason: reason}
	}
	return Availability{Available: true}
}
