// internal/common/metrics/metrics_test.go
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWorkerJobsActive_TracksInFlightJobs(t *testing.T) {
	g := WorkerJobsActive.WithLabelValues("collect-trends")

	g.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(g))
	g.Dec()
	assert.Equal(t, 0.0, testutil.ToFloat64(g))
}
