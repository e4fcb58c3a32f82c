package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep/v2"
)

// segmentRange converts a millisecond range of the song into sample offsets
// into the decoded buffer. Results are always within [0, bufLen] with
// from <= to; malformed input collapses to an empty range rather than
// erroring, since a zero-length segment is simply inaudible.
func segmentRange(sr beep.SampleRate, bufLen int, startMs, durationMs float64) (from, to int) {
	if math.IsNaN(startMs) || math.IsInf(startMs, 0) ||
		math.IsNaN(durationMs) || math.IsInf(durationMs, 0) {
		return 0, 0
	}
	from = sr.N(time.Duration(startMs * float64(time.Millisecond)))
	if from < 0 {
		from = 0
	}
	if from > bufLen {
		from = bufLen
	}
	n := sr.N(time.Duration(durationMs * float64(time.Millisecond)))
	if n < 0 {
		n = 0
	}
	to = from + n
	if to > bufLen {
		to = bufLen
	}
	return from, to
}
