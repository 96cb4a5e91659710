// Prometheus collectors for filter generation attempts
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "filter_workshop"

// Outcome labels.
const (
	OutcomeCompleted           = "completed"
	OutcomeGenerationFailed    = "generation_failed"
	OutcomeImplementationError = "implementation_error"
	OutcomeNeedsMoreParameters = "needs_more_parameters"
	OutcomeCancelled           = "cancelled"
)

// Collector records generation activity. It implements
// prometheus.Collector so it can be registered as a unit.
type Collector struct {
	started  *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
	edits    prometheus.Counter
	inFlight prometheus.Gauge
}

// NewCollector builds an unregistered collector.
func NewCollector() *Collector {
	return &Collector{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_started_total",
			Help:      "Generation attempts dispatched to the engine.",
		}, []string{"filter"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_outcomes_total",
			Help:      "Terminal outcomes of generation requests.",
		}, []string{"filter", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Time from attempt start to completed image.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"filter"}),
		edits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coalesced_edits_total",
			Help:      "Parameter edits forwarded after debouncing.",
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generation_in_flight",
			Help:      "Active generation attempts (0 or 1).",
		}),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.started.Describe(ch)
	c.outcomes.Describe(ch)
	c.duration.Describe(ch)
	c.edits.Describe(ch)
	c.inFlight.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.started.Collect(ch)
	c.outcomes.Collect(ch)
	c.duration.Collect(ch)
	c.edits.Collect(ch)
	c.inFlight.Collect(ch)
}

// AttemptStarted marks an attempt as active.
func (c *Collector) AttemptStarted(filter string) {
	c.started.WithLabelValues(filter).Inc()
	c.inFlight.Set(1)
}

// AttemptFinished records how the active attempt ended.
func (c *Collector) AttemptFinished(filter, outcome string, elapsed time.Duration) {
	c.outcomes.WithLabelValues(filter, outcome).Inc()
	if outcome == OutcomeCompleted {
		c.duration.WithLabelValues(filter).Observe(elapsed.Seconds())
	}
}

// Idle marks that no attempt is active.
func (c *Collector) Idle() {
	c.inFlight.Set(0)
}

// Rejected records a request that never started an attempt.
func (c *Collector) Rejected(filter, outcome string) {
	c.outcomes.WithLabelValues(filter, outcome).Inc()
}

// EditForwarded counts an edit that reached the parameter store.
func (c *Collector) EditForwarded() {
	c.edits.Inc()
}
