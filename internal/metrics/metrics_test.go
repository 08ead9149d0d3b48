package metrics

import (
	"testing"
	"time"
)

func TestNew_StartTimeSet(t *testing.T) {
	before := time.Now()
	m := New()
	after := time.Now()

	if m.startTime.Before(before) || m.startTime.After(after) {
		t.Errorf("startTime %v not in expected range [%v, %v]", m.startTime, before, after)
	}
}

func TestZeroValue_SnapshotSafe(t *testing.T) {
	var m Metrics
	s := m.Snapshot()
	if s.Requests.Total != 0 {
		t.Errorf("expected 0 total requests, got %d", s.Requests.Total)
	}
}

func TestRequestCounters(t *testing.T) {
	m := New()
	m.RequestsTotal.Add(10)
	m.RequestsOK.Add(7)
	m.RequestsCured.Add(2)

	s := m.Snapshot()
	if s.Requests.Total != 10 {
		t.Errorf("Total: got %d, want 10", s.Requests.Total)
	}
	if s.Requests.OK != 7 {
		t.Errorf("OK: got %d, want 7", s.Requests.OK)
	}
	if s.Requests.Cured != 2 {
		t.Errorf("Cured: got %d, want 2", s.Requests.Cured)
	}
}

func TestErrorCounters(t *testing.T) {
	m := New()
	m.ErrorsDisallowed.Add(3)
	m.ErrorsCurable.Add(5)

	s := m.Snapshot()
	if s.Errors.Disallowed != 3 {
		t.Errorf("Disallowed errors: got %d, want 3", s.Errors.Disallowed)
	}
	if s.Errors.Curable != 5 {
		t.Errorf("Curable errors: got %d, want 5", s.Errors.Curable)
	}
}

func TestResultCacheCounters(t *testing.T) {
	m := New()
	m.ResultCacheHits.Add(50)
	m.ResultCacheMisses.Add(9)

	s := m.Snapshot()
	if s.ResultCache.Hits != 50 {
		t.Errorf("Hits: got %d, want 50", s.ResultCache.Hits)
	}
	if s.ResultCache.Misses != 9 {
		t.Errorf("Misses: got %d, want 9", s.ResultCache.Misses)
	}
}

func TestRecordProcessLatency_SingleSample(t *testing.T) {
	m := New()
	m.RecordProcessLatency(100 * time.Millisecond)

	s := m.Snapshot()
	if s.Latency.Count != 1 {
		t.Errorf("Count: got %d, want 1", s.Latency.Count)
	}
	if s.Latency.MinMs < 90 || s.Latency.MinMs > 110 {
		t.Errorf("MinMs: got %f, want ~100", s.Latency.MinMs)
	}
}

func TestRecordProcessLatency_MinMaxMean(t *testing.T) {
	m := New()
	m.RecordProcessLatency(50 * time.Millisecond)
	m.RecordProcessLatency(150 * time.Millisecond)
	m.RecordProcessLatency(100 * time.Millisecond)

	s := m.Snapshot()
	ls := s.Latency
	if ls.Count != 3 {
		t.Errorf("Count: got %d, want 3", ls.Count)
	}
	if ls.MinMs > 60 {
		t.Errorf("MinMs too high: %f", ls.MinMs)
	}
	if ls.MaxMs < 140 {
		t.Errorf("MaxMs too low: %f", ls.MaxMs)
	}
	if ls.MeanMs < 90 || ls.MeanMs > 110 {
		t.Errorf("MeanMs: got %f, want ~100", ls.MeanMs)
	}
}

func TestSnapshotLatency_EmptyIsZeroValue(t *testing.T) {
	m := New()
	s := m.Snapshot()
	if s.Latency.Count != 0 {
		t.Errorf("empty latency count should be 0")
	}
}

func TestSnapshot_UptimePositive(t *testing.T) {
	m := New()
	time.Sleep(5 * time.Millisecond)
	s := m.Snapshot()
	if s.UptimeSecs <= 0 {
		t.Errorf("UptimeSecs should be positive, got %f", s.UptimeSecs)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		input float64
		want  float64
	}{
		{1.236, 1.24},
		{1.234, 1.23},
		{100.0, 100.0},
		{0.0, 0.0},
	}
	for _, c := range cases {
		got := round2(c.input)
		if got != c.want {
			t.Errorf("round2(%f) = %f, want %f", c.input, got, c.want)
		}
	}
}

func TestLatencyStats_Record(t *testing.T) {
	var s latencyStats
	s.record(10)
	s.record(20)
	s.record(15)

	snap := s.snapshot()
	if snap.Count != 3 {
		t.Errorf("Count: got %d, want 3", snap.Count)
	}
	if snap.MinMs != 10 {
		t.Errorf("MinMs: got %f, want 10", snap.MinMs)
	}
	if snap.MaxMs != 20 {
		t.Errorf("MaxMs: got %f, want 20", snap.MaxMs)
	}
	if snap.MeanMs != 15 {
		t.Errorf("MeanMs: got %f, want 15", snap.MeanMs)
	}
}

func TestLatencyStats_Empty(t *testing.T) {
	var s latencyStats
	snap := s.snapshot()
	if snap.Count != 0 || snap.MinMs != 0 || snap.MaxMs != 0 || snap.MeanMs != 0 {
		t.Errorf("empty stats snapshot should be zero, got %+v", snap)
	}
}
