package pipeline

import (
	"filter-workshop/internal/catalog"
)

// parameterStore holds the selected filter and the latest value per
// parameter. Only the coordinator goroutine touches it.
type parameterStore struct {
	filter *catalog.Filter
	values map[string]interface{}
}

func newParameterStore() *parameterStore {
	return &parameterStore{values: make(map[string]interface{})}
}

func (s *parameterStore) selectFilter(f catalog.Filter) {
	s.filter = &f
	s.values = make(map[string]interface{})
}

func (s *parameterStore) deselect() {
	s.filter = nil
	s.values = make(map[string]interface{})
}

// setValue upserts without checking the name against the descriptors.
func (s *parameterStore) setValue(name string, value interface{}) {
	s.values[name] = value
}

func (s *parameterStore) value(name string) (interface{}, bool) {
	v, ok := s.values[name]
	return v, ok
}

// missingRequired returns required descriptor names without a value, in
// declaration order.
func (s *parameterStore) missingRequired() []string {
	if s.filter == nil {
		return nil
	}
	var missing []string
	for _, p := range s.filter.Parameters {
		if !p.Required {
			continue
		}
		if _, ok := s.values[p.Name]; !ok {
			missing = append(missing, p.Name)
		}
	}
	return missing
}

// snapshot copies every stored value.
func (s *parameterStore) snapshot() map[string]interface{} {
	out := make(map[string]interface{}, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// generationSnapshot copies the values matching the current descriptors.
// Unknown names stay in the store but never reach the engine.
func (s *parameterStore) generationSnapshot() map[string]interface{} {
	out := make(map[string]interface{})
	if s.filter == nil {
		return out
	}
	for _, p := range s.filter.Parameters {
		if v, ok := s.values[p.Name]; ok {
			out[p.Name] = v
		}
	}
	return out
}
