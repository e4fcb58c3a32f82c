package play

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gsylte/versemix/cmd/common"
	"github.com/gsylte/versemix/corpus"
	"github.com/gsylte/versemix/engine"
	"github.com/gsylte/versemix/share"
	"github.com/spf13/cobra"
)

type Params struct {
	Corpus string `optional:"true" help:"Path to a corpus JSON file. Defaults to the embedded demo corpus."`
	Audio  string `optional:"true" help:"Path to the song MP3. Playback stays silent when omitted."`
	Code   string `optional:"true" help:"Share code to play instead of token arguments."`
	Repeat bool   `short:"r" help:"Loop the composition until interrupted."`
	Quiet  bool   `short:"q" help:"Do not print tokens as they play."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "play [tokens...]",
		Short: "Play a composition once (or on repeat) and exit",
		Long: `Play a composition given as token texts, in order, resolving repeated
tokens by beat proximity exactly like the editor does:

  versemix play --audio song.mp3 hey la la go

or given as a share code:

  versemix play --audio song.mp3 --code vmx1-...`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params, args); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func run(params *Params, args []string) error {
	c, err := common.LoadCorpus(params.Corpus)
	if err != nil {
		return err
	}

	selection, err := resolveSelection(c, params.Code, args)
	if err != nil {
		return err
	}

	player := common.LoadPlayer(params.Audio)
	defer player.Close()

	eng := engine.New(c, player, nil)
	if err := eng.ReplaceSelection(selection); err != nil {
		return err
	}
	eng.SetRepeat(params.Repeat)

	done := make(chan struct{})
	var once sync.Once
	var mu sync.Mutex // change callbacks may fire from different timer goroutines
	lastPos := -1
	eng.OnChange(func() {
		mu.Lock()
		defer mu.Unlock()
		if m, ok := eng.PlayingMarker(); ok && m.Pos != lastPos {
			lastPos = m.Pos
			if !params.Quiet {
				tok := c.Token(m.TokenIndex)
				fmt.Printf("%3d  %s %s\n", m.Pos+1, tok.Text, tok.Emoji)
			}
		}
		if !eng.IsPlaying() {
			once.Do(func() { close(done) })
		}
	})

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	eng.TogglePlayback()

	select {
	case <-done:
	case <-interrupt:
		eng.Stop()
		<-done
	}
	return nil
}

// resolveSelection turns either a share code or a list of token texts into
// corpus indices.
func resolveSelection(c *corpus.Corpus, code string, args []string) ([]int, error) {
	switch {
	case code != "" && len(args) > 0:
		return nil, fmt.Errorf("give either token arguments or --code, not both")
	case code != "":
		selection, err := share.Decode(code, c.Len())
		if err != nil {
			return nil, err
		}
		return selection, nil
	case len(args) == 0:
		return nil, fmt.Errorf("nothing to play: give token texts or --code")
	}

	var selection []int
	for _, text := range args {
		idx := c.Choose(text, selection)
		if idx < 0 {
			return nil, fmt.Errorf("no token %q in corpus", text)
		}
		selection = append(selection, idx)
	}
	return selection, nil
}
