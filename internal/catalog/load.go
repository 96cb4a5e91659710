package catalog

import (
	"io"
	"os"

	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Filters     []Filter          `yaml:"filters"`
	Unavailable map[string]string `yaml:"unavailable"`
}

// Load reads a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var file catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && err != io.EOF {
		return nil, errors.Annotate(err, "decoding catalog")
	}

	c := New()
	for _, f := range file.Filters {
		if _, exists := c.Get(f.Name); exists {
			return nil, errors.NotValidf("duplicate filter %q", f.Name)
		}
		if err := c.Register(f); err != nil {
			return nil, errors.Trace(err)
		}
	}
	for name, reason := range file.Unavailable {
		c.MarkUnavailable(name, reason)
	}
	return c, nil
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, errors.Annotatef(err, "loading catalog %s", path)
	}
	return c, nil
}
