// Package pipeline applies filters asynchronously: it coalesces parameter
// edits, keeps at most one generation attempt in flight and reports the
// outcome on a single ordered event stream.
package pipeline

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/core"
)

const (
	DefaultDebounceWindow = 300 * time.Millisecond
	DefaultEventBuffer    = 64
)

// DefaultCropWindow bounds outputs with infinite extent.
var DefaultCropWindow = image.Rect(0, 0, 500, 500)

// Engine produces an output image for a filter and a complete parameter
// set. A nil image or an error means no output could be produced.
type Engine interface {
	Generate(ctx context.Context, filter catalog.Filter, params map[string]interface{}) (core.Image, error)
}

// Recorder receives generation metrics. *metrics.Collector implements it.
type Recorder interface {
	AttemptStarted(filter string)
	AttemptFinished(filter, outcome string, elapsed time.Duration)
	Idle()
	Rejected(filter, outcome string)
	EditForwarded()
}

// Config holds the pipeline dependencies.
type Config struct {
	Engine  Engine
	Clock   clock.Clock
	Logger  logrus.FieldLogger
	Metrics Recorder

	// Zero values select the defaults above.
	DebounceWindow time.Duration
	CropWindow     image.Rectangle
	EventBuffer    int
}

// Validate ensures that the config values are valid.
func (c *Config) Validate() error {
	if c.Engine == nil {
		return errors.NotValidf("missing Engine")
	}
	if c.Clock == nil {
		return errors.NotValidf("missing Clock")
	}
	if c.Logger == nil {
		return errors.NotValidf("missing Logger")
	}
	if c.DebounceWindow < 0 {
		return errors.NotValidf("negative DebounceWindow %v", c.DebounceWindow)
	}
	if c.CropWindow.Empty() {
		return errors.NotValidf("empty CropWindow %v", c.CropWindow)
	}
	if err := core.ValidateExtent(core.BoundedExtent(c.CropWindow)); err != nil {
		return errors.NotValidf("CropWindow %v: %v", c.CropWindow, err)
	}
	if c.EventBuffer < 0 {
		return errors.NotValidf("negative EventBuffer %d", c.EventBuffer)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.DebounceWindow == 0 {
		c.DebounceWindow = DefaultDebounceWindow
	}
	if c.CropWindow == (image.Rectangle{}) {
		c.CropWindow = DefaultCropWindow
	}
	if c.EventBuffer == 0 {
		c.EventBuffer = DefaultEventBuffer
	}
	if c.Metrics == nil {
		c.Metrics = noopRecorder{}
	}
	return c
}

// Pipeline is the filter application pipeline. Store mutation, debounce
// expiry and the start/cancel decision all run on one coordinator
// goroutine; engine calls run on worker goroutines.
type Pipeline struct {
	cfg    Config
	logger logrus.FieldLogger

	commands chan func()
	events   chan Event
	done     chan struct{}
	loopDone chan struct{}

	closeOnce sync.Once
	workers   sync.WaitGroup
	readers   sync.WaitGroup

	// Owned by the coordinator goroutine.
	store  *parameterStore
	subs   map[uuid.UUID]*Subscription
	active *attempt
}

// New starts a pipeline. Call Close to release it.
func New(cfg Config) (*Pipeline, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	p := &Pipeline{
		cfg:      cfg,
		logger:   cfg.Logger.WithField("component", "pipeline"),
		commands: make(chan func(), cfg.EventBuffer),
		events:   make(chan Event, cfg.EventBuffer),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		store:    newParameterStore(),
		subs:     make(map[uuid.UUID]*Subscription),
	}
	go p.loop()
	return p, nil
}

func (p *Pipeline) loop() {
	defer close(p.loopDone)
	for {
		select {
		case cmd := <-p.commands:
			cmd()
		case <-p.done:
			p.cancelAllSubscriptions()
			p.cancelActive("pipeline closed")
			return
		}
	}
}

// do runs fn on the coordinator and waits for it.
func (p *Pipeline) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case p.commands <- func() { fn(); close(finished) }:
	case <-p.done:
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-p.loopDone:
		return ErrClosed
	}
}

// post queues fn on the coordinator without waiting.
func (p *Pipeline) post(fn func()) bool {
	select {
	case <-p.done:
		return false
	default:
	}
	select {
	case p.commands <- fn:
		return true
	case <-p.done:
		return false
	}
}

// emit delivers an event in order. A full buffer blocks the coordinator.
func (p *Pipeline) emit(ev Event) {
	select {
	case p.events <- ev:
	case <-p.done:
	}
}

// Events returns the event stream. It is closed by Close.
func (p *Pipeline) Events() <-chan Event {
	return p.events
}

// SelectFilter replaces the current filter, clears the configuration,
// cancels every edit subscription and any in-flight attempt.
func (p *Pipeline) SelectFilter(f catalog.Filter) error {
	return p.do(func() {
		p.cancelAllSubscriptions()
		p.cancelActive("filter reselected")
		p.store.selectFilter(f)
		p.logger.WithFields(logrus.Fields{
			"filter":     f.Name,
			"parameters": len(f.Parameters),
		}).Info("Filter selected")
	})
}

// Deselect drops the current filter and its configuration. Edit
// subscriptions and any in-flight attempt are cancelled, so nothing from
// the previous filter reaches the event stream afterwards.
func (p *Pipeline) Deselect() error {
	return p.do(func() {
		p.cancelAllSubscriptions()
		p.cancelActive("filter deselected")
		p.store.deselect()
		p.logger.Info("Filter deselected")
	})
}

// CurrentFilter returns the selected filter.
func (p *Pipeline) CurrentFilter() (catalog.Filter, bool) {
	var (
		f  catalog.Filter
		ok bool
	)
	_ = p.do(func() {
		if p.store.filter != nil {
			f, ok = *p.store.filter, true
		}
	})
	return f, ok
}

// SetValue upserts a parameter value. It does not request generation.
func (p *Pipeline) SetValue(name string, value interface{}) error {
	return p.do(func() {
		p.store.setValue(name, value)
	})
}

// Value reads a parameter value back from the configuration.
func (p *Pipeline) Value(name string) (interface{}, bool) {
	var (
		v  interface{}
		ok bool
	)
	_ = p.do(func() {
		v, ok = p.store.value(name)
	})
	return v, ok
}

// Snapshot copies the whole configuration, including names the current
// filter does not declare.
func (p *Pipeline) Snapshot() map[string]interface{} {
	var out map[string]interface{}
	if err := p.do(func() { out = p.store.snapshot() }); err != nil {
		return map[string]interface{}{}
	}
	return out
}

// MissingRequiredParameters lists required parameters without a value.
func (p *Pipeline) MissingRequiredParameters() []string {
	var missing []string
	_ = p.do(func() {
		missing = p.store.missingRequired()
	})
	return missing
}

// RequestGeneration asks for a new output image. The outcome arrives on
// the event stream; the call returns once the start/cancel decision has
// been made.
func (p *Pipeline) RequestGeneration() error {
	return p.do(p.requestGeneration)
}

// Close stops the pipeline, cancels in-flight work, waits for workers and
// closes the event stream.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		<-p.loopDone
		p.readers.Wait()
		p.workers.Wait()
		close(p.events)
		p.logger.Debug("Pipeline closed")
	})
	return nil
}

type noopRecorder struct{}

func (noopRecorder) AttemptStarted(string)                         {}
func (noopRecorder) AttemptFinished(string, string, time.Duration) {}
func (noopRecorder) Idle()                                         {}
func (noopRecorder) Rejected(string, string)                       {}
func (noopRecorder) EditForwarded()                                {}
