package main

import (
	"fmt"
	"strings"

	"filter-workshop/internal/catalog"
)

// assignments collects repeated -set name=value flags.
type assignments []string

func (a *assignments) String() string {
	return strings.Join(*a, ",")
}

func (a *assignments) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("expected name=value, got %q", v)
	}
	*a = append(*a, v)
	return nil
}

// parse splits the assignments and converts each value according to the
// filter's descriptor for it.
func (a assignments) parse(f catalog.Filter) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(a))
	for _, raw := range a {
		name, value, _ := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		param, ok := f.Parameter(name)
		if !ok {
			return nil, fmt.Errorf("filter %s has no parameter %q", f.Name, name)
		}
		v, err := catalog.ParseValue(param, value)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

// defaults returns descriptor defaults for non-image parameters.
func defaults(f catalog.Filter) map[string]interface{} {
	out := make(map[string]interface{})
	for _, p := range f.Parameters {
		if p.Kind == catalog.KindImage || p.Default == nil {
			continue
		}
		out[p.Name] = p.Default
	}
	return out
}

// imageParameters lists the image-kind parameters in declaration order.
func imageParameters(f catalog.Filter) []string {
	var names []string
	for _, p := range f.Parameters {
		if p.Kind == catalog.KindImage {
			names = append(names, p.Name)
		}
	}
	return names
}
