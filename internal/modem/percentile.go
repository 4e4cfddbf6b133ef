package modem

import (
	"math"
	"sort"
)

// percentile returns the p-th percentile (0-100) of values using linear
// interpolation between closest ranks, the conventional definition used by
// most statistics packages. values is sorted in place.
func percentile(values []float64, p float64) float64 {
	sort.Float64s(values)
	n := len(values)
	if n == 1 {
		return values[0]
	}
	idx := p / 100 * float64(n-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return values[lo]
	}
	frac := idx - float64(lo)
	return values[lo] + frac*(values[hi]-values[lo])
}
