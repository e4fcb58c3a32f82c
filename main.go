package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gsylte/versemix/cmd/edit"
	"github.com/gsylte/versemix/cmd/play"
	"github.com/gsylte/versemix/cmd/share"
	"github.com/gsylte/versemix/cmd/tokens"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "versemix",
		Short:   "Remix a song from its own lyrics, one token at a time",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			edit.Cmd(),
			play.Cmd(),
			tokens.Cmd(),
			share.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuildInfo := debug.ReadBuildInfo()
	if !hasBuildInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
