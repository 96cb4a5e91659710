package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseValue converts text typed by a user into a value for p. Image
// parameters cannot be given as text.
func ParseValue(p Parameter, raw string) (interface{}, error) {
	raw = strings.TrimSpace(raw)
	switch p.Kind {
	case KindNumber:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		if err := p.CheckRange(n); err != nil {
			return nil, err
		}
		return n, nil
	case KindColor, KindVector:
		parts := strings.Split(raw, ",")
		comps := make([]float64, len(parts))
		for i, part := range parts {
			n, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %q component %d: %w", p.Name, i, err)
			}
			comps[i] = n
		}
		return comps, nil
	case KindBoolean:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		return b, nil
	case KindImage:
		return nil, fmt.Errorf("parameter %q takes an image", p.Name)
	default:
		return raw, nil
	}
}

// CheckRange validates a number against the declared bounds.
func (p Parameter) CheckRange(n float64) error {
	if p.Min != nil && n < *p.Min {
		return fmt.Errorf("parameter %q: %v below minimum %v", p.Name, n, *p.Min)
	}
	if p.Max != nil && n > *p.Max {
		return fmt.Errorf("parameter %q: %v above maximum %v", p.Name, n, *p.Max)
	}
	return nil
}

// FormatValue renders a value the way ParseValue reads it.
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case []float64:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.FormatFloat(n, 'g', -1, 64)
		}
		return strings.Join(parts, ", ")
	case []interface{}:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = FormatValue(e)
		}
		return strings.Join(parts, ", ")
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
