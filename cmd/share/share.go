package share

import (
	"fmt"
	"io"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/atotto/clipboard"
	"github.com/gsylte/versemix/cmd/common"
	"github.com/gsylte/versemix/share"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

// Seam for tests; clipboard access needs a display server.
var clipboardWriteAll = clipboard.WriteAll

type Params struct {
	Corpus string `optional:"true" help:"Path to a corpus JSON file. Defaults to the embedded demo corpus."`
	Copy   bool   `short:"y" help:"Copy the share URL to the clipboard."`
	Qr     bool   `short:"Q" help:"Render the share URL as a QR code."`
	Invert bool   `short:"i" optional:"true" help:"Invert QR colors (for dark terminals)."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "share [tokens...]",
		Short: "Turn a composition into a shareable code and URL",
		Long: `Resolve the given token texts into a composition (repeated tokens are
disambiguated by beat proximity, exactly like the editor) and print its
share code and URL.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params, args, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "share: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func run(params *Params, args []string, out io.Writer) error {
	c, err := common.LoadCorpus(params.Corpus)
	if err != nil {
		return err
	}

	var selection []int
	for _, text := range args {
		idx := c.Choose(text, selection)
		if idx < 0 {
			return fmt.Errorf("no token %q in corpus", text)
		}
		selection = append(selection, idx)
	}

	code, err := share.Encode(selection)
	if err != nil {
		return err
	}
	url := share.BaseURL + code

	fmt.Fprintln(out, code)
	fmt.Fprintln(out, url)

	if params.Copy {
		if err := clipboardWriteAll(url); err != nil {
			return fmt.Errorf("copying to clipboard: %w", err)
		}
		fmt.Fprintln(out, "(copied to clipboard)")
	}

	if params.Qr {
		qr, err := qrcode.New(url, qrcode.Medium)
		if err != nil {
			return fmt.Errorf("generating qr code: %w", err)
		}
		fmt.Fprint(out, qr.ToSmallString(params.Invert))
	}
	return nil
}
