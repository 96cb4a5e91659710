package pipeline

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"filter-workshop/internal/catalog"
	"filter-workshop/internal/core"
)

const (
	shortWait = 50 * time.Millisecond
	longWait  = 5 * time.Second
)

var sepiaFilter = catalog.Filter{
	Name: "Sepia",
	Parameters: []catalog.Parameter{
		{Name: "intensity", Kind: catalog.KindNumber, Required: true},
	},
}

// fakeEngine records calls. Calls listed in gates block until the gate
// is closed, regardless of cancellation.
type fakeEngine struct {
	mu       sync.Mutex
	calls    []map[string]interface{}
	contexts []context.Context
	gates    map[int]chan struct{}
	maxLive  int
	entered  chan int
	generate func(filter catalog.Filter, params map[string]interface{}) (core.Image, error)
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		gates:   make(map[int]chan struct{}),
		entered: make(chan int, 100),
	}
}

// hold makes the n-th call (zero based) block until the returned gate is
// closed.
func (e *fakeEngine) hold(n int) chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	gate := make(chan struct{})
	e.gates[n] = gate
	return gate
}

func (e *fakeEngine) Generate(ctx context.Context, filter catalog.Filter, params map[string]interface{}) (core.Image, error) {
	e.mu.Lock()
	n := len(e.calls)
	e.calls = append(e.calls, params)
	e.contexts = append(e.contexts, ctx)
	live := 0
	for _, c := range e.contexts {
		if c.Err() == nil {
			live++
		}
	}
	if live > e.maxLive {
		e.maxLive = live
	}
	gate := e.gates[n]
	generate := e.generate
	e.mu.Unlock()

	e.entered <- n
	if gate != nil {
		<-gate
	}
	if generate != nil {
		return generate(filter, params)
	}
	return core.FromImage(image.NewRGBA(image.Rect(0, 0, 4, 4))), nil
}

func (e *fakeEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

func (e *fakeEngine) call(n int) map[string]interface{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[n]
}

func (e *fakeEngine) waitEntered(t *testing.T, n int) {
	t.Helper()
	select {
	case got := <-e.entered:
		require.Equal(t, n, got)
	case <-time.After(longWait):
		t.Fatalf("engine call %d never started", n)
	}
}

type infiniteImage struct{}

func (infiniteImage) Extent() core.Extent { return core.InfiniteExtent() }

func (infiniteImage) Crop(r image.Rectangle) (core.Image, error) {
	return core.FromImage(image.NewRGBA(r)), nil
}

func (infiniteImage) Render() (image.Image, error) {
	return nil, errors.New("cannot render infinite image")
}

type unrenderableImage struct{}

func (unrenderableImage) Extent() core.Extent {
	return core.BoundedExtent(image.Rect(0, 0, 1, 1))
}

func (unrenderableImage) Crop(image.Rectangle) (core.Image, error) {
	return unrenderableImage{}, nil
}

func (unrenderableImage) Render() (image.Image, error) {
	return nil, errors.New("no pixel buffer")
}

type fixture struct {
	p      *Pipeline
	engine *fakeEngine
	clock  *testclock.Clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	f := &fixture{
		engine: newFakeEngine(),
		clock:  testclock.NewClock(time.Now()),
	}
	p, err := New(Config{
		Engine: f.engine,
		Clock:  f.clock,
		Logger: logger,
	})
	require.NoError(t, err)
	f.p = p
	t.Cleanup(func() { _ = p.Close() })
	return f
}

func (f *fixture) nextEvent(t *testing.T) Event {
	t.Helper()
	select {
	case ev, ok := <-f.p.Events():
		require.True(t, ok, "event stream closed")
		return ev
	case <-time.After(longWait):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func (f *fixture) expectNoEvent(t *testing.T) {
	t.Helper()
	select {
	case ev := <-f.p.Events():
		t.Fatalf("unexpected event %s: %+v", ev.Kind, ev)
	case <-time.After(shortWait):
	}
}

// waitForEdits blocks until the coordinator has received n edits for sub.
func (f *fixture) waitForEdits(t *testing.T, sub *Subscription, n uint64) {
	t.Helper()
	require.Eventually(t, func() bool {
		var seq uint64
		_ = f.p.do(func() { seq = sub.seq })
		return seq == n
	}, longWait, time.Millisecond)
}

// settle waits for the coordinator to drain posted work.
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	time.Sleep(shortWait)
	require.NoError(t, f.p.do(func() {}))
}
