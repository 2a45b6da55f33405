package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"studytrack/internal/platform/metrics"
)

func TestCountersAreRegistered(t *testing.T) {
	t.Parallel()
	m := metrics.New()
	m.SessionsAdded.Inc()
	m.Reconciliations.WithLabelValues("merged").Inc()
	m.BackendFailures.WithLabelValues("page", "set").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsAdded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BackendFailures.WithLabelValues("page", "set")))
	count, err := testutil.GatherAndCount(m.Registry())
	assert.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestHelpersTolerateNilMetrics(t *testing.T) {
	t.Parallel()
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.SessionAdded()
		m.Reconciled("merged", 3)
		m.BackendFailed("page", "get")
	})
}

func TestReconciledSetsStoredGauge(t *testing.T) {
	t.Parallel()
	m := metrics.New()
	m.Reconciled("merged", 7)
	m.Reconciled("failed", 0)
	assert.Equal(t, 7.0, testutil.ToFloat64(m.SessionsStored))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Reconciliations.WithLabelValues("failed")))
}
