// Package engine holds the composition selection and the playback state
// machine that walks it. The engine is driven by user commands (add, toggle
// playback, toggle repeat, edits) and by one-shot timers it schedules for
// itself: each segment plays for its token's declared duration, then a timer
// advances the cursor to the next one. Timers fire on their own goroutines,
// so every transition is serialized by the engine mutex, and timer bodies
// re-read live state at fire time. A generation counter invalidates timers
// that were in flight when playback stopped or restarted.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/gsylte/versemix/corpus"
)

var (
	ErrUnknownToken = errors.New("token text not present in corpus")
	ErrBadIndex     = errors.New("selection index out of corpus range")
)

// SegmentPlayer plays one time range of the shared decoded song buffer.
// Starting a segment stops whatever was audible before it; both calls are
// safe no-ops when no audio is loaded.
type SegmentPlayer interface {
	Play(startMs, durationMs float64)
	Stop()
}

// Marker identifies the segment currently being played back, for display.
type Marker struct {
	Pos        int // position within the selection
	TokenIndex int // corpus index of the token at that position
}

// Engine owns the selection and the playback state machine.
type Engine struct {
	mu     sync.Mutex
	corpus *corpus.Corpus
	player SegmentPlayer
	sched  Scheduler
	notify func()

	selection  []int
	cursor     int
	playing    bool
	repeat     bool
	marker     *Marker
	timer      Timer
	generation uint64
}

// New creates an engine over the given corpus and segment player. A nil
// scheduler selects the wall clock.
func New(c *corpus.Corpus, player SegmentPlayer, sched Scheduler) *Engine {
	if sched == nil {
		sched = WallClock()
	}
	return &Engine{
		corpus: c,
		player: player,
		sched:  sched,
	}
}

// OnChange registers a callback fired after every observable state change
// (selection edits, playback start/stop, marker movement, repeat toggles).
// The callback runs outside the engine lock and must not assume which change
// triggered it; observers re-read the state they care about.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	e.notify = fn
	e.mu.Unlock()
}

func (e *Engine) notifyChange() {
	e.mu.Lock()
	fn := e.notify
	e.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// AddToken resolves the given text against the corpus (beat-proximity
// disambiguation relative to the selection's last token), appends the chosen
// occurrence and previews its audio range, silencing any segment that was
// already audible.
func (e *Engine) AddToken(text string) error {
	e.mu.Lock()
	idx := e.corpus.Choose(text, e.selection)
	if idx < 0 {
		e.mu.Unlock()
		return ErrUnknownToken
	}
	e.selection = append(e.selection, idx)
	tok := e.corpus.Token(idx)
	e.player.Play(tok.StartTimeMs, tok.DurationMs())
	e.mu.Unlock()
	e.notifyChange()
	return nil
}

// RemoveLastToken drops the selection's last entry. No-op on an empty
// selection; never touches audio.
func (e *Engine) RemoveLastToken() {
	e.mu.Lock()
	if len(e.selection) == 0 {
		e.mu.Unlock()
		return
	}
	e.selection = e.selection[:len(e.selection)-1]
	e.mu.Unlock()
	e.notifyChange()
}

// ClearSelection empties the selection. Never touches audio.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	e.selection = nil
	e.mu.Unlock()
	e.notifyChange()
}

// ReplaceSelection installs a whole selection at once, as when loading a
// share code. Every index must be a valid corpus index. Never touches audio.
func (e *Engine) ReplaceSelection(indices []int) error {
	for _, idx := range indices {
		if idx < 0 || idx >= e.corpus.Len() {
			return ErrBadIndex
		}
	}
	e.mu.Lock()
	e.selection = append([]int(nil), indices...)
	e.mu.Unlock()
	e.notifyChange()
	return nil
}

// Selection returns a copy of the current selection.
func (e *Engine) Selection() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]int, len(e.selection))
	copy(out, e.selection)
	return out
}

// IsPlaying reports whether the engine is in its playing state.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.playing
}

// Repeat reports the repeat flag, which survives stop/start cycles.
func (e *Engine) Repeat() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repeat
}

// PlayingMarker returns the currently playing segment's marker, if any.
func (e *Engine) PlayingMarker() (Marker, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.marker == nil {
		return Marker{}, false
	}
	return *e.marker, true
}

// SetRepeat sets the repeat flag. The effect is observed at the next
// end-of-selection boundary check, never retroactively.
func (e *Engine) SetRepeat(repeat bool) {
	e.mu.Lock()
	e.repeat = repeat
	e.mu.Unlock()
	e.notifyChange()
}

// ToggleRepeat flips the repeat flag and returns the new value.
func (e *Engine) ToggleRepeat() bool {
	e.mu.Lock()
	e.repeat = !e.repeat
	repeat := e.repeat
	e.mu.Unlock()
	e.notifyChange()
	return repeat
}

// TogglePlayback is the single transport control: starts playback from the
// top when idle, fully stops it when already playing. Starting with an empty
// selection is a no-op.
func (e *Engine) TogglePlayback() {
	e.mu.Lock()
	if e.playing {
		e.stopLocked()
		e.mu.Unlock()
		e.notifyChange()
		return
	}
	if len(e.selection) == 0 {
		e.mu.Unlock()
		return
	}
	e.playing = true
	e.cursor = 0
	e.generation++
	e.advanceLocked()
	e.mu.Unlock()
	e.notifyChange()
}

// Stop halts playback: cancels the pending timer, silences audio and resets
// the cursor and marker. Idempotent; safe to call at any time, including
// while a step timer is in flight.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopLocked()
	e.mu.Unlock()
	e.notifyChange()
}

func (e *Engine) stopLocked() {
	e.generation++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.player.Stop()
	e.playing = false
	e.cursor = 0
	e.marker = nil
}

// advanceLocked performs one sequencer step: boundary check, then start the
// segment under the cursor and schedule the step that follows it. Must be
// called with the engine lock held.
func (e *Engine) advanceLocked() {
	if !e.playing {
		return
	}
	if e.cursor >= len(e.selection) {
		if e.repeat {
			// Re-enter via the scheduler rather than recursing, so long
			// looping selections never deepen the call stack.
			e.cursor = 0
			e.scheduleLocked(0, false)
			return
		}
		e.stopLocked()
		return
	}
	idx := e.selection[e.cursor]
	tok := e.corpus.Token(idx)
	e.marker = &Marker{Pos: e.cursor, TokenIndex: idx}
	e.player.Play(tok.StartTimeMs, tok.DurationMs())
	dur := tok.DurationMs()
	if dur < 0 {
		dur = 0
	}
	e.scheduleLocked(time.Duration(dur*float64(time.Millisecond)), true)
}

// scheduleLocked arms the one-shot timer for the next step. The timer body
// re-checks live state under the lock: a fire that arrives after a stop, or
// from a previous playback generation, does nothing.
func (e *Engine) scheduleLocked(d time.Duration, step bool) {
	gen := e.generation
	e.timer = e.sched.AfterFunc(d, func() {
		e.mu.Lock()
		if !e.playing || gen != e.generation {
			e.mu.Unlock()
			return
		}
		if step {
			e.cursor++
		}
		e.advanceLocked()
		e.mu.Unlock()
		e.notifyChange()
	})
}
