package inject

import (
	"math"

	"github.com/voxelworld/reverbtrace/pkg/logging"
)

// BufferGuard is a post hoc sanity check on one ear's rendered output
// buffer, adapted from the teacher's pkg/framework/debug.AudioAnalyzer:
// it inspects each ear buffer before packInt16 wraps it to 16 bits (the
// wrap-or-saturate choice spec.md §4.5's "Numeric notes" leaves to the
// implementer), and logs when a buffer looks wrong, without changing the
// per-sample algorithm itself.
type BufferGuard struct {
	log               *logging.Logger
	clippingThreshold float64
	silenceThreshold  float64
}

// NewBufferGuard creates a guard logging through log, or the package
// default logger if log is nil.
func NewBufferGuard(log *logging.Logger) *BufferGuard {
	if log == nil {
		log = logging.Default()
	}
	return &BufferGuard{
		log:               log,
		clippingThreshold: 32760,
		silenceThreshold:  1,
	}
}

// Check inspects one rendered int16-range ear buffer for samples outside
// the int16 range (which packing will wrap), near-clipping peaks, and total
// silence, in that order, and logs only the first condition found: a
// warning for the first two, a debug message for silence. label identifies which ear
// ("left" or "right") the samples belong to.
func (g *BufferGuard) Check(label string, samples []int) {
	if len(samples) == 0 {
		return
	}

	peak := 0.0
	sum := 0.0
	wrapped := 0

	for _, s := range samples {
		f := float64(s)
		if math.Abs(f) > peak {
			peak = math.Abs(f)
		}
		sum += f
		if s > 32767 || s < -32768 {
			wrapped++
		}
	}

	if wrapped > 0 {
		g.log.Warn("ear buffer sample wrapped out of int16 range", "ear", label, "count", wrapped)
		return
	}
	if peak >= g.clippingThreshold {
		g.log.Warn("ear buffer near clipping", "ear", label, "peak", peak)
		return
	}
	if peak < g.silenceThreshold && sum == 0 {
		g.log.Debug("ear buffer silent", "ear", label)
	}
}
