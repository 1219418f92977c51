package models

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// JobSummary aggregates per-page latency statistics for reporting.
type JobSummary struct {
	Pages       int           `json:"pages"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	MeanLatency time.Duration `json:"mean_latency"`
	StdDev      time.Duration `json:"stddev_latency"`
	MinLatency  time.Duration `json:"min_latency"`
	MaxLatency  time.Duration `json:"max_latency"`
}

// Summarize computes latency statistics over the job's per-page timings.
// With fewer than two pages the standard deviation is reported as zero.
func (r *JobResult) Summarize() JobSummary {
	s := JobSummary{
		Pages:     len(r.Pages),
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
	}
	if len(r.Pages) == 0 {
		return s
	}

	samples := make([]float64, len(r.Pages))
	s.MinLatency = r.Pages[0].Elapsed
	for i, p := range r.Pages {
		samples[i] = float64(p.Elapsed)
		if p.Elapsed < s.MinLatency {
			s.MinLatency = p.Elapsed
		}
		if p.Elapsed > s.MaxLatency {
			s.MaxLatency = p.Elapsed
		}
	}

	s.MeanLatency = time.Duration(stat.Mean(samples, nil))
	if len(samples) > 1 {
		s.StdDev = time.Duration(stat.StdDev(samples, nil))
	}
	return s
}
