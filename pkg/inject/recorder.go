package inject

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Recorder optionally dumps every rendered ear-output pair to a WAV file
// for offline inspection of a trace's audible rendering, adapted from the
// teacher's pkg/framework/debug.AudioAnalyzer debug-dump spirit. Disabled
// unless a caller passes one to New; the demo CLI passes nil.
type Recorder struct {
	enc        *wav.Encoder
	sampleRate int
	format     *audio.Format
}

// NewRecorder wraps w as a 2-channel, 16-bit PCM WAV encoder at
// sampleRate. Callers must call Close when done to flush the header.
func NewRecorder(w io.WriteSeeker, sampleRate int) *Recorder {
	format := &audio.Format{NumChannels: channels, SampleRate: sampleRate}
	return &Recorder{
		enc:        wav.NewEncoder(w, sampleRate, 16, channels, 1),
		sampleRate: sampleRate,
		format:     format,
	}
}

// Capture interleaves one left/right ear-output pair and writes it as a
// stereo frame set: since left and right buffers are already isolated to
// their own stereo channel (spec.md §4.5 step 3), the sum is the true
// stereo signal for this contribution.
func (r *Recorder) Capture(left, right []int) {
	n := len(left)
	mixed := make([]int, n)
	for i := 0; i < n; i++ {
		mixed[i] = left[i] + right[i]
	}

	buf := &audio.IntBuffer{
		Format:         r.format,
		Data:           mixed,
		SourceBitDepth: 16,
	}
	_ = r.enc.Write(buf)
}

// Close flushes the WAV header and trailer.
func (r *Recorder) Close() error {
	return r.enc.Close()
}
