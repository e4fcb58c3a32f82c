//go:build !cgo

package audio

import (
	"io"
	"log/slog"
)

// Available indicates whether audio playback is supported in this build.
// The speaker backend needs cgo for the native sound libraries.
const Available = false

// Player is the silent fallback for builds without cgo: composition and
// sequencing work, nothing is audible.
type Player struct{}

// NewPlayer creates a silent player.
func NewPlayer() *Player {
	return &Player{}
}

// LoadMP3 reports that this build cannot play audio and discards the input.
func (p *Player) LoadMP3(r io.Reader) error {
	slog.Warn("built without cgo, audio playback disabled")
	return nil
}

// Ready always reports false without cgo.
func (p *Player) Ready() bool {
	return false
}

// Play is a no-op without cgo.
func (p *Player) Play(startMs, durationMs float64) {}

// Stop is a no-op without cgo.
func (p *Player) Stop() {}

// Close is a no-op without cgo.
func (p *Player) Close() {}
