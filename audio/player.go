//go:build cgo

package audio

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

// Available indicates whether audio playback is supported in this build.
const Available = true

// Player plays one time range of the song at a time. The whole song is
// decoded once into a shared beep buffer; each Play carves a sub-range out
// of it and hands it to the speaker, silencing whatever was audible before.
// Until LoadMP3 succeeds every call is a silent no-op, so a missing or
// undecodable audio asset degrades playback without touching the rest of
// the program.
type Player struct {
	mu     sync.Mutex
	buffer *beep.Buffer
	format beep.Format
	ctrl   *beep.Ctrl
}

// NewPlayer creates a player with no audio loaded.
func NewPlayer() *Player {
	return &Player{}
}

// LoadMP3 decodes the whole song into the shared in-memory buffer and
// initializes the speaker. Meant to be called once at startup.
func (p *Player) LoadMP3(r io.Reader) error {
	streamer, format, err := mp3.Decode(io.NopCloser(r))
	if err != nil {
		return fmt.Errorf("decoding mp3: %w", err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}

	p.mu.Lock()
	p.buffer = buffer
	p.format = format
	p.mu.Unlock()

	slog.Info("song decoded",
		"samples", buffer.Len(),
		"sampleRate", int(format.SampleRate),
		"duration", format.SampleRate.D(buffer.Len()).Round(time.Millisecond))
	return nil
}

// Ready reports whether a decoded buffer is loaded.
func (p *Player) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer != nil
}

// Play starts the segment beginning startMs into the song and lasting
// durationMs, stopping any segment that is still audible. No-op until audio
// is loaded; out-of-range values are clamped to the buffer.
func (p *Player) Play(startMs, durationMs float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.buffer == nil {
		slog.Debug("segment play skipped, no audio loaded", "startMs", startMs)
		return
	}
	p.stopLocked()

	from, to := segmentRange(p.format.SampleRate, p.buffer.Len(), startMs, durationMs)
	if from >= to {
		return
	}

	ctrl := &beep.Ctrl{Streamer: p.buffer.Streamer(from, to)}
	p.ctrl = ctrl
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		// Fires on the speaker goroutine with the speaker lock held; clear
		// the handle on a fresh goroutine so p.mu is never taken under the
		// speaker lock (stopLocked takes them in the opposite order).
		go func() {
			p.mu.Lock()
			if p.ctrl == ctrl {
				p.ctrl = nil
			}
			p.mu.Unlock()
		}()
	})))
}

// Stop silences the active segment if any. Idempotent.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	p.ctrl.Streamer = nil
	speaker.Unlock()
	p.ctrl = nil
}

// Close releases the playback context. The player is unusable afterwards.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	if p.buffer != nil {
		speaker.Close()
		p.buffer = nil
	}
}
