package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	c.AttemptStarted("Sepia")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.inFlight))

	c.AttemptFinished("Sepia", OutcomeCompleted, 20*time.Millisecond)
	c.Idle()
	c.Rejected("Sepia", OutcomeNeedsMoreParameters)
	c.EditForwarded()
	c.EditForwarded()

	assert.Equal(t, 0.0, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.edits))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.outcomes.WithLabelValues("Sepia", OutcomeCompleted)))

	expected := `
# HELP filter_workshop_generation_started_total Generation attempts dispatched to the engine.
# TYPE filter_workshop_generation_started_total counter
filter_workshop_generation_started_total{filter="Sepia"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "filter_workshop_generation_started_total"))
}
