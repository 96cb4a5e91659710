package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/core"
	"filter-workshop/internal/metrics"
)

// attempt is one unit of generation work over an immutable snapshot.
// Cancellation is cooperative: the worker checks ctx at its checkpoints
// and the coordinator drops results from attempts that are not active.
type attempt struct {
	id      uuid.UUID
	filter  catalog.Filter
	params  map[string]interface{}
	started time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

type attemptResult struct {
	image image.Image
	err   error
}

// requestGeneration runs on the coordinator.
func (p *Pipeline) requestGeneration() {
	if p.store.filter == nil {
		err := &ImplementationError{Message: "no filter name provided", Err: ErrNoFilterSelected}
		p.logger.WithError(err).Error("Generation requested without a filter")
		p.cfg.Metrics.Rejected("", metrics.OutcomeImplementationError)
		p.emit(Event{Kind: EventErrored, Err: err})
		return
	}
	filter := *p.store.filter

	// Any new request makes the running attempt stale.
	p.cancelActive("superseded")

	if missing := p.store.missingRequired(); len(missing) > 0 {
		p.logger.WithFields(logrus.Fields{
			"filter":  filter.Name,
			"missing": missing,
		}).Debug("Generation needs more parameters")
		p.cfg.Metrics.Rejected(filter.Name, metrics.OutcomeNeedsMoreParameters)
		p.emit(Event{
			Kind:   EventErrored,
			Filter: filter.Name,
			Err:    &NeedsMoreParametersError{Names: missing},
		})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &attempt{
		id:      uuid.New(),
		filter:  filter,
		params:  p.store.generationSnapshot(),
		started: p.cfg.Clock.Now(),
		ctx:     ctx,
		cancel:  cancel,
	}
	p.active = a
	p.cfg.Metrics.AttemptStarted(filter.Name)

	p.logger.WithFields(logrus.Fields{
		"attempt":    a.id.String(),
		"filter":     filter.Name,
		"parameters": len(a.params),
	}).Info("Generation started")
	p.emit(Event{Kind: EventStarted, AttemptID: a.id.String(), Filter: filter.Name})

	p.workers.Add(1)
	go p.runAttempt(a)
}

// cancelActive flips the active attempt to cancelled. Its worker may keep
// running but nothing it produces is emitted.
func (p *Pipeline) cancelActive(reason string) {
	a := p.active
	if a == nil {
		return
	}
	a.cancel()
	p.active = nil
	p.cfg.Metrics.AttemptFinished(a.filter.Name, metrics.OutcomeCancelled, 0)
	p.cfg.Metrics.Idle()
	p.logger.WithFields(logrus.Fields{
		"attempt": a.id.String(),
		"filter":  a.filter.Name,
		"reason":  reason,
	}).Debug("Generation cancelled")
}

// runAttempt runs on a worker goroutine and never touches pipeline state
// other than by posting back to the coordinator.
func (p *Pipeline) runAttempt(a *attempt) {
	defer p.workers.Done()

	if a.ctx.Err() != nil {
		return
	}
	result := p.generate(a)
	if a.ctx.Err() != nil {
		return
	}
	p.post(func() { p.finishAttempt(a, result) })
}

func (p *Pipeline) generate(a *attempt) (result attemptResult) {
	defer func() {
		if r := recover(); r != nil {
			result = attemptResult{err: &ImplementationError{Message: fmt.Sprintf("panic during generation: %v", r)}}
		}
	}()

	out, err := p.cfg.Engine.Generate(a.ctx, a.filter, a.params)
	if err != nil || out == nil {
		release(out)
		if err == nil {
			return attemptResult{err: ErrGenerationFailed}
		}
		return attemptResult{err: fmt.Errorf("%w: %v", ErrGenerationFailed, err)}
	}
	defer func() { release(out) }()

	if out.Extent().Infinite {
		cropped, err := out.Crop(p.cfg.CropWindow)
		if err != nil {
			return attemptResult{err: &ImplementationError{Message: "could not crop infinite output", Err: err}}
		}
		release(out)
		out = cropped
	}

	if a.ctx.Err() != nil {
		return attemptResult{err: a.ctx.Err()}
	}

	rendered, err := out.Render()
	if err != nil {
		return attemptResult{err: &ImplementationError{Message: "could not render output image", Err: err}}
	}
	if rendered == nil {
		return attemptResult{err: &ImplementationError{Message: "renderer returned no image"}}
	}
	return attemptResult{image: rendered}
}

// finishAttempt runs on the coordinator. Results of attempts that are no
// longer active are discarded without an event.
func (p *Pipeline) finishAttempt(a *attempt, result attemptResult) {
	if p.active != a {
		p.logger.WithField("attempt", a.id.String()).Debug("Discarding result of cancelled attempt")
		return
	}
	p.active = nil
	a.cancel()
	p.cfg.Metrics.Idle()

	elapsed := p.cfg.Clock.Now().Sub(a.started)
	if elapsed < 0 {
		elapsed = 0
	}
	log := p.logger.WithFields(logrus.Fields{
		"attempt":    a.id.String(),
		"filter":     a.filter.Name,
		"elapsed_ms": elapsed.Milliseconds(),
	})

	if result.err != nil {
		outcome := metrics.OutcomeGenerationFailed
		if IsImplementationError(result.err) {
			outcome = metrics.OutcomeImplementationError
			log.WithError(result.err).Error("Generation hit an implementation error")
		} else {
			log.WithError(result.err).Warn("Generation failed")
		}
		p.cfg.Metrics.AttemptFinished(a.filter.Name, outcome, elapsed)
		p.emit(Event{
			Kind:      EventErrored,
			AttemptID: a.id.String(),
			Filter:    a.filter.Name,
			Err:       result.err,
		})
		return
	}

	p.cfg.Metrics.AttemptFinished(a.filter.Name, metrics.OutcomeCompleted, elapsed)
	log.WithField("bounds", result.image.Bounds().String()).Info("Generation completed")
	p.emit(Event{
		Kind:       EventCompleted,
		AttemptID:  a.id.String(),
		Filter:     a.filter.Name,
		Image:      result.image,
		Elapsed:    elapsed,
		Parameters: a.params,
	})
}

// release frees engine-owned resources such as OpenCV matrices.
func release(img core.Image) {
	if c, ok := img.(io.Closer); ok {
		_ = c.Close()
	}
}
