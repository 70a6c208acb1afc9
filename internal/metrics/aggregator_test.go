package metrics

import (
	"math"
	"testing"
	"time"
)

func TestAggregatorRecord(t *testing.T) {
	agg := NewAggregator()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	agg.now = func() time.Time { return fixed }

	agg.Record(Sample{Model: "gemini-2.5-flash", RetrievalMs: 2, PromptTokens: 200, CompletionTokens: 40, Duration: 800 * time.Millisecond})
	agg.Record(Sample{Model: "gemini-2.5-flash", RetrievalMs: 4, PromptTokens: 300, CompletionTokens: 60, Duration: 1200 * time.Millisecond, KeywordFallback: true})
	agg.Record(Sample{Model: "gemini-2.5-flash", RetrievalMs: 3, Failed: true})
	agg.Record(Sample{Model: "llama3.1", PromptTokens: 10, CompletionTokens: 5, Duration: time.Second})

	snap := agg.Snapshot()
	if len(snap) != 2 || snap[0].ModelName != "gemini-2.5-flash" || snap[1].ModelName != "llama3.1" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}

	g := snap[0]
	if !g.LastUpdatedUTC.Equal(fixed) {
		t.Fatalf("expected last updated %v, got %v", fixed, g.LastUpdatedUTC)
	}
	s := g.OverallStats
	if s.TotalRequests != 3 || s.Failures != 1 || s.KeywordFallbacks != 1 {
		t.Fatalf("unexpected counters: %+v", s)
	}
	if s.RetrievalMillis.Mean != 3 || s.RetrievalMillis.Min != 2 || s.RetrievalMillis.Max != 4 {
		t.Fatalf("unexpected retrieval stat: %+v", s.RetrievalMillis)
	}
	if s.InputTokens.Count != 2 || s.InputTokens.Mean != 250 {
		t.Fatalf("failed answers must not count toward tokens: %+v", s.InputTokens)
	}
	if s.TotalDurationMillis.Mean != 1000 {
		t.Fatalf("expected mean duration 1000ms, got %v", s.TotalDurationMillis.Mean)
	}
	if got := s.InputTokens.StdDev(); math.Abs(got-70.7107) > 0.001 {
		t.Fatalf("unexpected stddev %v", got)
	}

	buckets := map[string]int64{}
	for _, b := range g.PerformanceBuckets {
		buckets[b.Bucket] = b.Stats.TotalRequests
	}
	if buckets["0-256"] != 2 || buckets["257-1024"] != 1 {
		t.Fatalf("unexpected buckets: %+v", buckets)
	}
}

func TestAggregatorNil(t *testing.T) {
	var agg *Aggregator
	agg.Record(Sample{Model: "x"})
	if snap := agg.Snapshot(); snap != nil {
		t.Fatalf("expected nil snapshot, got %+v", snap)
	}
}

func TestGetBucket(t *testing.T) {
	tests := map[int]string{0: "0-256", 256: "0-256", 257: "257-1024", 4096: "1025-4096", 8000: "4097-8192", 9000: "8192+"}
	for in, want := range tests {
		if got := getBucket(in); got != want {
			t.Fatalf("getBucket(%d)=%q want %q", in, got, want)
		}
	}
}

func TestRunningStatStdDevSingleValue(t *testing.T) {
	var rs RunningStat
	updateRunningStat(&rs, 5)
	if rs.StdDev() != 0 {
		t.Fatalf("expected 0 stddev for a single value")
	}
}
