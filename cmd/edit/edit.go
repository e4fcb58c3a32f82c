package edit

import (
	"fmt"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gsylte/versemix/cmd/common"
	"github.com/gsylte/versemix/engine"
	"github.com/spf13/cobra"
)

type Params struct {
	Corpus string `optional:"true" help:"Path to a corpus JSON file. Defaults to the embedded demo corpus."`
	Audio  string `optional:"true" help:"Path to the song MP3. Playback stays silent when omitted."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "edit",
		Short: "Compose a remix interactively",
		Long: `Open the interactive editor. Type a lyric token and press space or enter
to append it to your composition; repeated tokens are disambiguated by
beat proximity to the previous pick, and every pick is previewed.

Keys:
  type + space/enter  append token (and preview it)
  tab                 complete to the first matching token
  backspace           delete typed character, or drop the last pick
  space (empty input) start/stop playback
  ctrl+r              toggle repeat
  ctrl+x              clear the composition
  ctrl+s              show the share code
  esc / ctrl+c        quit`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "edit: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func run(params *Params) error {
	c, err := common.LoadCorpus(params.Corpus)
	if err != nil {
		return err
	}
	player := common.LoadPlayer(params.Audio)
	defer player.Close()

	eng := engine.New(c, player, nil)
	m := newModel(c, eng, player.Ready())

	p := tea.NewProgram(m, tea.WithAltScreen())
	eng.OnChange(func() { p.Send(engineChangedMsg{}) })

	_, err = p.Run()
	eng.Stop()
	if err != nil {
		return fmt.Errorf("running editor: %w", err)
	}
	return nil
}
