package share

import (
	"strings"
	"testing"

	"github.com/gsylte/versemix/share"
)

func TestRun_PrintsCodeAndURL(t *testing.T) {
	var out strings.Builder
	err := run(&Params{}, []string{"hey", "la"}, &out)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q, want code line and url line", out.String())
	}
	if !strings.HasPrefix(lines[0], share.Prefix) {
		t.Errorf("first line = %q, want share code", lines[0])
	}
	if !strings.HasPrefix(lines[1], share.BaseURL) {
		t.Errorf("second line = %q, want share url", lines[1])
	}

	// The printed code must decode back to a valid selection of the demo
	// corpus.
	if _, err := share.Decode(lines[0], 1<<30); err != nil {
		t.Errorf("printed code does not decode: %v", err)
	}
}

func TestRun_CopiesToClipboard(t *testing.T) {
	orig := clipboardWriteAll
	defer func() { clipboardWriteAll = orig }()
	var copied string
	clipboardWriteAll = func(text string) error {
		copied = text
		return nil
	}

	var out strings.Builder
	if err := run(&Params{Copy: true}, []string{"hey"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.HasPrefix(copied, share.BaseURL) {
		t.Errorf("clipboard content = %q, want share url", copied)
	}
	if !strings.Contains(out.String(), "copied to clipboard") {
		t.Errorf("output %q does not confirm the copy", out.String())
	}
}

func TestRun_RendersQR(t *testing.T) {
	var out strings.Builder
	if err := run(&Params{Qr: true}, []string{"hey"}, &out); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// The QR block characters follow the code and url lines.
	if !strings.ContainsAny(out.String(), "█▀▄") {
		t.Errorf("output has no QR block characters:\n%s", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	var out strings.Builder
	if err := run(&Params{}, []string{"nope"}, &out); err == nil {
		t.Error("run with unknown token succeeded, want error")
	}
	if err := run(&Params{}, nil, &out); err == nil {
		t.Error("run with no tokens succeeded, want error")
	}
}
