// internal/metrics/aggregator.go
package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/mwiater/beypal/internal/logging"
)

// Aggregator collects per-model answer statistics in memory.
type Aggregator struct {
	mutex   sync.Mutex
	metrics map[string]*ModelMetrics
	now     func() time.Time
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		metrics: make(map[string]*ModelMetrics),
		now:     time.Now,
	}
}

// Record updates the metrics for the sample's model.
func (a *Aggregator) Record(s Sample) {
	if a == nil {
		return
	}
	logging.LogEvent("[METRICS] Record called for model %s", s.Model)
	a.mutex.Lock()
	defer a.mutex.Unlock()

	modelMetrics, exists := a.metrics[s.Model]
	if !exists {
		modelMetrics = &ModelMetrics{
			ModelName: s.Model,
		}
		a.metrics[s.Model] = modelMetrics
	}

	modelMetrics.LastUpdatedUTC = a.now().UTC()

	updateStats(&modelMetrics.OverallStats, s)

	bucket := getBucket(s.PromptTokens)
	for i := range modelMetrics.PerformanceBuckets {
		if modelMetrics.PerformanceBuckets[i].Dimension == "input_tokens" && modelMetrics.PerformanceBuckets[i].Bucket == bucket {
			updateStats(&modelMetrics.PerformanceBuckets[i].Stats, s)
			return
		}
	}
	newBucket := PerformanceBucket{
		Dimension: "input_tokens",
		Bucket:    bucket,
	}
	updateStats(&newBucket.Stats, s)
	modelMetrics.PerformanceBuckets = append(modelMetrics.PerformanceBuckets, newBucket)
}

// Snapshot returns a copy of every model's metrics ordered by model name.
func (a *Aggregator) Snapshot() []ModelMetrics {
	if a == nil {
		return nil
	}
	a.mutex.Lock()
	defer a.mutex.Unlock()

	out := make([]ModelMetrics, 0, len(a.metrics))
	for _, m := range a.metrics {
		cp := *m
		cp.PerformanceBuckets = append([]PerformanceBucket(nil), m.PerformanceBuckets...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModelName < out[j].ModelName })
	return out
}

// updateStats updates the running statistics with a new sample. Failed
// answers only count toward the request and failure totals.
func updateStats(stats *RunningAggregatedStats, s Sample) {
	stats.TotalRequests++
	if s.KeywordFallback {
		stats.KeywordFallbacks++
	}
	updateRunningStat(&stats.RetrievalMillis, float64(s.RetrievalMs))
	if s.Failed {
		stats.Failures++
		return
	}
	updateRunningStat(&stats.InputTokens, float64(s.PromptTokens))
	updateRunningStat(&stats.OutputTokens, float64(s.CompletionTokens))
	updateRunningStat(&stats.TotalDurationMillis, float64(s.Duration.Milliseconds()))
}

// updateRunningStat updates a single running statistic using Welford's online algorithm.
func updateRunningStat(rs *RunningStat, value float64) {
	rs.Count++
	if rs.Count == 1 {
		rs.Min = value
		rs.Max = value
	} else {
		if value < rs.Min {
			rs.Min = value
		}
		if value > rs.Max {
			rs.Max = value
		}
	}

	delta := value - rs.Mean
	rs.Mean += delta / float64(rs.Count)
	delta2 := value - rs.Mean
	rs.M2 += delta * delta2
}

// getBucket determines the appropriate performance bucket for a given number of input tokens.
func getBucket(inputTokens int) string {
	switch {
	case inputTokens <= 256:
		return "0-256"
	case inputTokens <= 1024:
		return "257-1024"
	case inputTokens <= 4096:
		return "1025-4096"
	case inputTokens <= 8192:
		return "4097-8192"
	default:
		return "8192+"
	}
}
