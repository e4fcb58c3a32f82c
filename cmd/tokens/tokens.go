package tokens

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gsylte/versemix/cmd/common"
	"github.com/gsylte/versemix/corpus"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

type Params struct {
	Corpus string `optional:"true" help:"Path to a corpus JSON file. Defaults to the embedded demo corpus."`
	Text   string `short:"t" optional:"true" help:"Only list occurrences of this token text."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "tokens",
		Short:       "List the corpus tokens with their beat and time ranges",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "tokens: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func run(params *Params, out io.Writer) error {
	c, err := common.LoadCorpus(params.Corpus)
	if err != nil {
		return err
	}

	var toks []corpus.Token
	if params.Text != "" {
		if !c.HasText(params.Text) {
			return fmt.Errorf("no token %q in corpus", params.Text)
		}
		for _, idx := range c.Occurrences(params.Text) {
			toks = append(toks, c.Token(idx))
		}
	} else {
		toks = c.Tokens()
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Text", "Beats", "Time (ms)", "Emoji"})
	for _, tok := range toks {
		t.AppendRow(table.Row{
			tok.Index,
			tok.Text,
			fmt.Sprintf("%g – %g", tok.StartBeat, tok.EndBeat),
			fmt.Sprintf("%.0f – %.0f", tok.StartTimeMs, tok.EndTimeMs),
			tok.Emoji,
		})
	}
	t.Render()
	return nil
}
