package util

import (
	"math"
	"testing"
)

func TestSizeHistogramEmpty(t *testing.T) {
	h := NewSizeHistogram()
	if stats := h.Stats(); stats != (SizeStats{}) {
		t.Errorf("Expected zero stats, got %+v", stats)
	}
	if p := h.Percentile(50); p != 0 {
		t.Errorf("Expected 0 for empty histogram, got %d", p)
	}
}

func TestSizeHistogramStats(t *testing.T) {
	h := NewSizeHistogram()
	for _, size := range []int64{2, 4, 4, 4, 5, 5, 7, 9} {
		h.Add(size)
	}

	stats := h.Stats()
	if stats.Count != 8 || stats.Min != 2 || stats.Max != 9 {
		t.Errorf("Unexpected count/min/max: %+v", stats)
	}
	if stats.Mean != 5 {
		t.Errorf("Expected mean 5, got %f", stats.Mean)
	}
	if math.Abs(stats.StdDeviation-2) > 1e-9 {
		t.Errorf("Expected standard deviation 2, got %f", stats.StdDeviation)
	}
	// all samples fall into the first bucket, the estimate is clamped to [min, max]
	if stats.Median < stats.Min || stats.Median > stats.Max {
		t.Errorf("Median estimate %d outside of [%d, %d]", stats.Median, stats.Min, stats.Max)
	}
}

func TestSizeHistogramPercentiles(t *testing.T) {
	h := NewSizeHistogram()
	for i := 0; i < 90; i++ {
		h.Add(10)
	}
	for i := 0; i < 10; i++ {
		h.Add(100000)
	}

	if p := h.Percentile(50); p != 10 {
		t.Errorf("Expected median estimate 10, got %d", p)
	}
	if p := h.Percentile(99); p < 65536 || p > 262144 {
		t.Errorf("Expected p99 estimate in the 64KB-256KB bucket, got %d", p)
	}
	if p := h.Percentile(101); p != 0 {
		t.Errorf("Expected 0 for invalid percentile, got %d", p)
	}

	// values above the largest boundary
	h.Add(1 << 30)
	if p := h.Percentile(100); p != 1<<30 {
		t.Errorf("Expected max for the overflow bucket, got %d", p)
	}
}

func TestSizeHistogramSmallValues(t *testing.T) {
	h := NewSizeHistogram()
	for i := 0; i < 8; i++ {
		h.Add(1)
	}
	h.Add(9)

	// the estimate is the middle of the first bucket, not the exact median
	if p := h.Percentile(50); p != 8 {
		t.Errorf("Expected median estimate 8, got %d", p)
	}
}
