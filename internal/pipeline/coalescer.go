package pipeline

import (
	"sync"

	"github.com/google/uuid"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
)

// Subscription is the handle for one edit source. Each source is debounced
// independently: only the last value of a burst reaches the store.
type Subscription struct {
	id       uuid.UUID
	p        *Pipeline
	stop     chan struct{}
	stopOnce sync.Once

	// Owned by the coordinator goroutine.
	timer   clock.Timer
	pending *ParameterValue
	seq     uint64
}

// ID identifies the subscription in logs.
func (s *Subscription) ID() string {
	return s.id.String()
}

// Cancel stops the subscription. Pending debounced edits are dropped.
func (s *Subscription) Cancel() {
	s.halt()
	_ = s.p.do(func() {
		s.p.removeSubscription(s)
	})
}

func (s *Subscription) halt() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// AddSubscription consumes source until it is closed, the subscription is
// cancelled, or the filter is reselected. Every forwarded edit updates the
// store and requests generation.
func (p *Pipeline) AddSubscription(source <-chan ParameterValue) (*Subscription, error) {
	sub := &Subscription{
		id:   uuid.New(),
		p:    p,
		stop: make(chan struct{}),
	}
	if err := p.do(func() { p.subs[sub.id] = sub }); err != nil {
		return nil, err
	}

	p.readers.Add(1)
	go func() {
		defer p.readers.Done()
		for {
			select {
			case v, ok := <-source:
				if !ok {
					return
				}
				if !p.post(func() { p.receiveEdit(sub, v) }) {
					return
				}
			case <-sub.stop:
				return
			case <-p.done:
				return
			}
		}
	}()
	return sub, nil
}

// CancelAll disposes every edit subscription and its pending timers.
func (p *Pipeline) CancelAll() error {
	return p.do(p.cancelAllSubscriptions)
}

// receiveEdit restarts the debounce window for the edit's source.
func (p *Pipeline) receiveEdit(sub *Subscription, v ParameterValue) {
	if _, ok := p.subs[sub.id]; !ok {
		return
	}
	if sub.timer != nil {
		sub.timer.Stop()
	}
	sub.pending = &v
	sub.seq++
	seq := sub.seq

	p.logger.WithFields(logrus.Fields{
		"subscription": sub.id.String(),
		"parameter":    v.Name,
		"delay_ms":     p.cfg.DebounceWindow.Milliseconds(),
	}).Debug("Scheduling debounced edit")

	sub.timer = p.cfg.Clock.AfterFunc(p.cfg.DebounceWindow, func() {
		p.post(func() { p.fireEdit(sub, seq) })
	})
}

// fireEdit forwards the surviving edit of a burst. Timers that were
// replaced or belong to a cancelled subscription are ignored.
func (p *Pipeline) fireEdit(sub *Subscription, seq uint64) {
	if _, ok := p.subs[sub.id]; !ok {
		return
	}
	if seq != sub.seq || sub.pending == nil {
		return
	}
	v := *sub.pending
	sub.pending = nil
	sub.timer = nil

	p.store.setValue(v.Name, v.Value)
	p.cfg.Metrics.EditForwarded()
	p.requestGeneration()
}

func (p *Pipeline) removeSubscription(sub *Subscription) {
	if sub.timer != nil {
		sub.timer.Stop()
		sub.timer = nil
	}
	sub.pending = nil
	delete(p.subs, sub.id)
}

func (p *Pipeline) cancelAllSubscriptions() {
	if len(p.subs) > 0 {
		p.logger.WithField("count", len(p.subs)).Debug("Cancelling edit subscriptions")
	}
	for _, sub := range p.subs {
		sub.halt()
		p.removeSubscription(sub)
	}
}
