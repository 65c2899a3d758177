package util

import (
	"math"
)

// ----------------------------------------------------------------------------
// SizeStats
// ----------------------------------------------------------------------------

// SizeStats summarises the sizes (in bytes) of the values stored in a table
type SizeStats struct {
	Count        int64   `json:"count"`
	Min          int64   `json:"min"`
	Max          int64   `json:"max"`
	Mean         float64 `json:"mean"`
	StdDeviation float64 `json:"std_deviation"`
	Median       int64   `json:"median_estimate"`
	P99          int64   `json:"p99_estimate"`
}

// ----------------------------------------------------------------------------
// SizeHistogram
// ----------------------------------------------------------------------------

// sizeBoundaries are the upper bounds of the histogram buckets, from 16 bytes to
// the 512 MB value limit. Larger sizes fall into an extra bucket.
var sizeBoundaries = []int64{
	16, 64, 256, 1024, 4096, // Bytes: 16B to 4KB
	16384, 65536, 262144, 1048576, // KB range: 16KB to 1MB
	4194304, 16777216, 67108864, // MB range: 4MB to 64MB
	268435456, 536870912, // 256MB and 512MB
}

// SizeHistogram collects value sizes into exponential buckets. It is not safe for
// concurrent use.
type SizeHistogram struct {
	buckets    []int64
	count      int64
	sum        int64
	sumSquares float64
	min        int64
	max        int64
}

// NewSizeHistogram creates an empty histogram
func NewSizeHistogram() *SizeHistogram {
	return &SizeHistogram{
		buckets: make([]int64, len(sizeBoundaries)+1),
	}
}

// Add records a single size
func (h *SizeHistogram) Add(size int64) {
	bucket := len(sizeBoundaries)
	for i, boundary := range sizeBoundaries {
		if size <= boundary {
			bucket = i
			break
		}
	}
	h.buckets[bucket]++

	if h.count == 0 || size < h.min {
		h.min = size
	}
	if size > h.max {
		h.max = size
	}
	h.count++
	h.sum += size
	h.sumSquares += float64(size) * float64(size)
}

// Percentile estimates the given percentile (0-100) from the bucket counts. The
// estimate is the middle of the bucket, clamped to the observed min and max. Small
// values therefore report the middle of the first bucket: eight 1 byte values and
// a 9 byte value estimate a median of 8, not 1.
func (h *SizeHistogram) Percentile(percentile int) int64 {
	if h.count == 0 || percentile < 0 || percentile > 100 {
		return 0
	}

	target := int64(math.Ceil(float64(h.count) * float64(percentile) / 100.0))
	cumulative := int64(0)
	for i, n := range h.buckets {
		cumulative += n
		if cumulative < target || n == 0 {
			continue
		}

		var estimate int64
		switch {
		case i == 0:
			estimate = sizeBoundaries[0] / 2
		case i < len(sizeBoundaries):
			estimate = (sizeBoundaries[i-1] + sizeBoundaries[i]) / 2
		default:
			estimate = h.max
		}
		return min(max(estimate, h.min), h.max)
	}
	return h.max
}

// Stats returns the summary of all recorded sizes
func (h *SizeHistogram) Stats() SizeStats {
	if h.count == 0 {
		return SizeStats{}
	}

	mean := float64(h.sum) / float64(h.count)
	// population variance, clamped against rounding below zero
	variance := math.Max(h.sumSquares/float64(h.count)-mean*mean, 0)

	return SizeStats{
		Count:        h.count,
		Min:          h.min,
		Max:          h.max,
		Mean:         mean,
		StdDeviation: math.Sqrt(variance),
		Median:       h.Percentile(50),
		P99:          h.Percentile(99),
	}
}
