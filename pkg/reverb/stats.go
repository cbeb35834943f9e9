package reverb

import (
	"math"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/voxelworld/reverbtrace/pkg/trace"
)

// Stats is a snapshot of the aggregate statistics spec.md §4.4 and §7
// require: running min/max/avg delay and attenuation across the most
// recently computed contribution set, plus path and runaway-termination
// counts.
type Stats struct {
	MinDelayMs, MaxDelayMs, AvgDelayMs             float64
	MinAttenuation, MaxAttenuation, AvgAttenuation float64
	TotalPaths, DiffusionPaths                     int
	RunawayTerminations                            int
}

// StatsTracker recomputes Stats on the cadence spec.md §4.4 specifies:
// every trace for both engines, and the delay/attenuation figures again on
// every inbound batch for the chain engine. Modeled on the teacher's pkg/dsp/analysis.PeakMeter — a running
// min/max behind a guarding mutex — and additionally exported as
// Prometheus gauges/counters so a host process can scrape them.
type StatsTracker struct {
	mu sync.Mutex
	s  Stats

	gMinDelay, gMaxDelay, gAvgDelay prometheus.Gauge
	gMinAtten, gMaxAtten, gAvgAtten prometheus.Gauge
	gTotalPaths, gDiffusionPaths    prometheus.Gauge
	cRunawayTerminations            prometheus.Counter
}

// NewStatsTracker creates a tracker and registers its metrics with reg.
// reg may be nil, in which case metrics are created but not registered
// (useful in tests or when a host manages its own registry).
func NewStatsTracker(reg prometheus.Registerer) *StatsTracker {
	t := &StatsTracker{
		gMinDelay:            newGauge("reverbtrace_delay_ms_min", "Minimum contribution delay in the last recompute."),
		gMaxDelay:            newGauge("reverbtrace_delay_ms_max", "Maximum contribution delay in the last recompute."),
		gAvgDelay:            newGauge("reverbtrace_delay_ms_avg", "Average contribution delay in the last recompute."),
		gMinAtten:            newGauge("reverbtrace_attenuation_min", "Minimum contribution attenuation in the last recompute."),
		gMaxAtten:            newGauge("reverbtrace_attenuation_max", "Maximum contribution attenuation in the last recompute."),
		gAvgAtten:            newGauge("reverbtrace_attenuation_avg", "Average contribution attenuation in the last recompute."),
		gTotalPaths:          newGauge("reverbtrace_paths_total", "Total path count in the last trace."),
		gDiffusionPaths:      newGauge("reverbtrace_paths_diffusion", "Diffusion-spawned path count in the last trace."),
		cRunawayTerminations: newCounter("reverbtrace_runaway_terminations_total", "Paths evicted for exceeding the active-path ceiling."),
	}

	if reg != nil {
		reg.MustRegister(t.gMinDelay, t.gMaxDelay, t.gAvgDelay,
			t.gMinAtten, t.gMaxAtten, t.gAvgAtten,
			t.gTotalPaths, t.gDiffusionPaths, t.cRunawayTerminations)
	}

	return t
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: help})
}

func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: help})
}

// RecomputeFromResult recomputes path-shaped statistics from a fresh
// trace.Result: total path count, diffusion-path count (via
// PathState.IsPrimary), and delay/attenuation min/max/avg across every
// finished path and every audible point.
func (t *StatsTracker) RecomputeFromResult(result *trace.Result, runawayTerminations int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.TotalPaths = len(result.Paths)
	t.s.DiffusionPaths = 0
	for _, p := range result.Paths {
		if !p.IsPrimary() {
			t.s.DiffusionPaths++
		}
	}
	t.s.RunawayTerminations += runawayTerminations
	if runawayTerminations > 0 {
		t.cRunawayTerminations.Add(float64(runawayTerminations))
	}

	var delays, attens []float64
	for _, p := range result.Paths {
		delays = append(delays, p.DelayMs)
		attens = append(attens, p.Attenuation)
	}
	for _, a := range result.AudiblePoints {
		delays = append(delays, a.DelayMs)
		attens = append(attens, a.Attenuation)
	}

	t.s.MinDelayMs, t.s.MaxDelayMs, t.s.AvgDelayMs = minMaxAvg(delays)
	t.s.MinAttenuation, t.s.MaxAttenuation, t.s.AvgAttenuation = minMaxAvg(attens)

	t.publishLocked()
}

// RecomputeFromDelaysAttens recomputes only the delay/attenuation
// min/max/avg, for the chain engine's per-batch cadence (spec.md §4.4),
// leaving path counts untouched.
func (t *StatsTracker) RecomputeFromDelaysAttens(delays, attens []float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.s.MinDelayMs, t.s.MaxDelayMs, t.s.AvgDelayMs = minMaxAvg(delays)
	t.s.MinAttenuation, t.s.MaxAttenuation, t.s.AvgAttenuation = minMaxAvg(attens)

	t.publishLocked()
}

func (t *StatsTracker) publishLocked() {
	t.gMinDelay.Set(t.s.MinDelayMs)
	t.gMaxDelay.Set(t.s.MaxDelayMs)
	t.gAvgDelay.Set(t.s.AvgDelayMs)
	t.gMinAtten.Set(t.s.MinAttenuation)
	t.gMaxAtten.Set(t.s.MaxAttenuation)
	t.gAvgAtten.Set(t.s.AvgAttenuation)
	t.gTotalPaths.Set(float64(t.s.TotalPaths))
	t.gDiffusionPaths.Set(float64(t.s.DiffusionPaths))
}

// IncRunaway records a runaway-termination event outside of a full
// recompute, e.g. as soon as PathPool.Spawn evicts a path.
func (t *StatsTracker) IncRunaway(n int) {
	if n <= 0 {
		return
	}
	t.mu.Lock()
	t.s.RunawayTerminations += n
	t.mu.Unlock()
	t.cRunawayTerminations.Add(float64(n))
}

// Snapshot returns a copy of the current statistics.
func (t *StatsTracker) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s
}

func minMaxAvg(values []float64) (min, max, avg float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	min = math.Inf(1)
	max = math.Inf(-1)
	sum := 0.0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	return min, max, sum / float64(len(values))
}
