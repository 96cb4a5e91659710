// Image processing engine backed by OpenCV
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/core"
)

// Algorithm produces an output image from a complete parameter set.
type Algorithm func(params Params) (core.Image, error)

// Engine runs named filters. It is safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	algorithms map[string]Algorithm
	logger     logrus.FieldLogger
}

// New returns an engine with the built-in filters registered.
func New(logger logrus.FieldLogger) *Engine {
	e := &Engine{
		algorithms: make(map[string]Algorithm),
		logger:     logger,
	}
	e.Register("Sepia", sepia)
	e.Register("ColorInvert", colorInvert)
	e.Register("ColorControls", colorControls)
	e.Register("GaussianBlur", gaussianBlur)
	e.Register("ConstantColor", constantColor)
	e.Register("Checkerboard", checkerboard)
	return e
}

func (e *Engine) Register(name string, algorithm Algorithm) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.algorithms[name] = algorithm
}

// Supports reports whether a filter is registered.
func (e *Engine) Supports(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.algorithms[name]
	return ok
}

// Names lists registered filters, sorted.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.algorithms))
	for name := range e.algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate applies a filter. Only parameters the filter declares are
// passed through. A nil image with an error means no output could be
// produced.
func (e *Engine) Generate(ctx context.Context, filter catalog.Filter, values map[string]interface{}) (img core.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = fmt.Errorf("panic in filter %s: %v", filter.Name, r)
			e.logger.WithField("filter", filter.Name).Errorf("PANIC RECOVERED: %v", r)
		}
	}()

	e.mu.RLock()
	algorithm, ok := e.algorithms[filter.Name]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("filter not found: %s", filter.Name)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := make(Params, len(filter.Parameters))
	for _, p := range filter.Parameters {
		if v, ok := values[p.Name]; ok {
			params[p.Name] = v
		}
	}

	start := time.Now()
	img, err = algorithm(params)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", filter.Name, err)
	}
	if img == nil {
		return nil, fmt.Errorf("filter %s produced no output", filter.Name)
	}
	e.logger.WithFields(logrus.Fields{
		"filter":      filter.Name,
		"extent":      img.Extent().String(),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Filter applied")
	return img, nil
}
