// Package stats turns a slice of per-job latency samples from the bench
// command into the summary numbers an operator actually wants: mean,
// median, tail percentiles, and throughput. The percentile math is
// gonum's, not hand-rolled, since nearest-rank/interpolated percentile
// selection is exactly the kind of thing worth pulling from a library
// that has already gotten the edge cases right.
package stats

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary reports the distribution of a batch of job latencies.
type Summary struct {
	Count      int
	Total      time.Duration
	Mean       time.Duration
	Median     time.Duration
	P95        time.Duration
	P99        time.Duration
	Min        time.Duration
	Max        time.Duration
	Throughput float64 // jobs per second, Count / Total.Seconds()
}

// Summarize computes a Summary over samples. samples need not be sorted;
// Summarize copies and sorts its own working slice.
func Summarize(samples []time.Duration) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	values := make([]float64, len(samples))
	for i, d := range samples {
		values[i] = float64(d)
	}
	sort.Float64s(values)

	var total time.Duration
	for _, d := range samples {
		total += d
	}

	mean := stat.Mean(values, nil)
	median := stat.Quantile(0.5, stat.Empirical, values, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, values, nil)
	p99 := stat.Quantile(0.99, stat.Empirical, values, nil)

	s := Summary{
		Count:  len(samples),
		Total:  total,
		Mean:   time.Duration(mean),
		Median: time.Duration(median),
		P95:    time.Duration(p95),
		P99:    time.Duration(p99),
		Min:    time.Duration(values[0]),
		Max:    time.Duration(values[len(values)-1]),
	}
	if total > 0 {
		s.Throughput = float64(s.Count) / total.Seconds()
	}
	return s
}
