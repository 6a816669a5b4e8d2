package monitoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.IncrementRequest()
	m.IncrementError()
	m.IncrementCacheHit()
	m.IncrementCacheMiss()
	m.IncrementCacheMiss()

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["total_requests"])
	assert.Equal(t, int64(1), stats["error_count"])
	assert.Equal(t, int64(1), stats["cache_hits"])
	assert.Equal(t, int64(2), stats["cache_misses"])
	assert.InDelta(t, 50.0, stats["error_rate_percent"].(float64), 1e-9)
	assert.InDelta(t, 100.0/3.0, stats["cache_hit_rate_percent"].(float64), 1e-9)
}

func TestMetricsPredictionCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordPrediction(true)
	m.RecordPrediction(true)
	m.RecordPrediction(false)
	m.IncrementValidationFailure()
	m.IncrementScalingFailure()
	m.IncrementClassificationFailure()

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats["predictions"])
	assert.Equal(t, int64(2), stats["member_verdicts"])
	assert.Equal(t, int64(1), stats["non_member_verdicts"])
	assert.Equal(t, int64(1), stats["validation_failures"])
	assert.Equal(t, int64(1), stats["scaling_failures"])
	assert.Equal(t, int64(1), stats["classification_failures"])
}

func TestMetricsPercentiles(t *testing.T) {
	m := NewMetrics()

	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(95))

	for i := 1; i <= 100; i++ {
		m.RecordResponseTime(time.Duration(i) * time.Millisecond)
	}

	p50 := m.GetPercentileResponseTime(50)
	p99 := m.GetPercentileResponseTime(99)
	assert.True(t, p50 >= 45*time.Millisecond && p50 <= 55*time.Millisecond, "p50 was %v", p50)
	assert.True(t, p99 >= 95*time.Millisecond, "p99 was %v", p99)
	assert.GreaterOrEqual(t, p99, p50)
}

func TestMetricsStatusDistribution(t *testing.T) {
	m := NewMetrics()

	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(200)
	m.RecordRequestByStatus(422)

	dist := m.GetStatusCodeDistribution()
	assert.Equal(t, int64(2), dist[200])
	assert.Equal(t, int64(1), dist[422])
}

func TestMetricsRateLimitStats(t *testing.T) {
	m := NewMetrics()

	m.IncrementRateLimitIPBlock()
	m.IncrementRateLimitFallback()
	m.IncrementRateLimitEndpoint("/api/predict")
	m.IncrementRateLimitEndpoint("/api/predict")

	stats := m.GetRateLimitStats()
	assert.Equal(t, int64(1), stats["ip_blocks"])
	assert.Equal(t, int64(1), stats["fallback_count"])

	endpointBlocks := stats["endpoint_blocks"].(map[string]int64)
	assert.Equal(t, int64(2), endpointBlocks["/api/predict"])
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()

	m.IncrementRequest()
	m.RecordPrediction(true)
	m.RecordResponseTime(10 * time.Millisecond)
	m.Reset()

	stats := m.GetStats()
	require.Equal(t, int64(0), stats["total_requests"])
	require.Equal(t, int64(0), stats["predictions"])
	assert.Equal(t, time.Duration(0), m.GetPercentileResponseTime(50))
}
