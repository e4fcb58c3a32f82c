package common

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gsylte/versemix/audio"
	"github.com/gsylte/versemix/corpus"
)

func DefaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}

// LoadCorpus returns the corpus at the given path, or the embedded demo
// corpus for an empty path.
func LoadCorpus(path string) (*corpus.Corpus, error) {
	if path == "" {
		return corpus.Default(), nil
	}
	c, err := corpus.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	return c, nil
}

// LoadPlayer builds the segment player from the given MP3 path. A missing or
// undecodable file is logged and leaves the player inert: composition still
// works, playback is silent.
func LoadPlayer(path string) *audio.Player {
	player := audio.NewPlayer()
	if path == "" {
		slog.Info("no audio file given, playback disabled")
		return player
	}
	f, err := os.Open(path)
	if err != nil {
		slog.Error("failed to open audio file, playback disabled", "path", path, "error", err)
		return player
	}
	defer func() { _ = f.Close() }()
	if err := player.LoadMP3(f); err != nil {
		slog.Error("failed to decode audio file, playback disabled", "path", path, "error", err)
	}
	return player
}
