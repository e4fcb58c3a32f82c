package corpus

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

// testTokens builds a small corpus with repeated texts at known beats.
func testTokens() []Token {
	return []Token{
		{Text: "hey", StartBeat: 0, EndBeat: 1, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "la", StartBeat: 4, EndBeat: 5, StartTimeMs: 2000, EndTimeMs: 2500},
		{Text: "la", StartBeat: 10, EndBeat: 11, StartTimeMs: 5000, EndTimeMs: 5500},
		{Text: "sun", StartBeat: 11, EndBeat: 12, StartTimeMs: 5500, EndTimeMs: 6000},
		{Text: "la", StartBeat: 50, EndBeat: 51, StartTimeMs: 25000, EndTimeMs: 25500},
	}
}

func mustCorpus(t *testing.T, tokens []Token) *Corpus {
	t.Helper()
	c, err := New(tokens)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestNew_AssignsIndicesAndBuildsIndex(t *testing.T) {
	c := mustCorpus(t, testTokens())

	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		if c.Token(i).Index != i {
			t.Errorf("Token(%d).Index = %d, want %d", i, c.Token(i).Index, i)
		}
	}
	if got := c.Occurrences("la"); !reflect.DeepEqual(got, []int{1, 2, 4}) {
		t.Errorf("Occurrences(la) = %v, want [1 2 4]", got)
	}
	if got := c.Occurrences("nope"); len(got) != 0 {
		t.Errorf("Occurrences(nope) = %v, want empty", got)
	}
}

func TestNew_RejectsBadTokens(t *testing.T) {
	tests := []struct {
		name  string
		token Token
	}{
		{"empty text", Token{Text: "  ", StartBeat: 0, EndBeat: 1, StartTimeMs: 0, EndTimeMs: 1}},
		{"nan beat", Token{Text: "x", StartBeat: math.NaN(), EndBeat: 1, StartTimeMs: 0, EndTimeMs: 1}},
		{"inf time", Token{Text: "x", StartBeat: 0, EndBeat: 1, StartTimeMs: 0, EndTimeMs: math.Inf(1)}},
		{"negative start", Token{Text: "x", StartBeat: 0, EndBeat: 1, StartTimeMs: -5, EndTimeMs: 1}},
		{"end before start", Token{Text: "x", StartBeat: 0, EndBeat: 1, StartTimeMs: 100, EndTimeMs: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]Token{tt.token})
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("New(%+v) error = %v, want ErrInvalidToken", tt.token, err)
			}
		})
	}
}

func TestNew_EmptyCorpus(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("New(nil) error = %v, want ErrEmptyCorpus", err)
	}
}

func TestParse_BadJSON(t *testing.T) {
	if _, err := Parse([]byte("{not json")); err == nil {
		t.Error("Parse of malformed JSON succeeded, want error")
	}
}

func TestChoose_SingleOccurrence(t *testing.T) {
	c := mustCorpus(t, testTokens())

	// Regardless of selection contents, a unique text resolves to its only
	// occurrence.
	selections := [][]int{nil, {0}, {4, 2, 0}}
	for _, sel := range selections {
		if got := c.Choose("sun", sel); got != 3 {
			t.Errorf("Choose(sun, %v) = %d, want 3", sel, got)
		}
	}
}

func TestChoose_EmptySelectionPicksFirst(t *testing.T) {
	c := mustCorpus(t, testTokens())
	if got := c.Choose("la", nil); got != 1 {
		t.Errorf("Choose(la, nil) = %d, want 1", got)
	}
}

func TestChoose_BeatProximity(t *testing.T) {
	// Mirrors the "la at beats 10 and 50, last entry ends at beat 12" shape:
	// the occurrence starting at beat 10 is two beats away, the one at 50 is
	// thirty-eight away.
	c := mustCorpus(t, []Token{
		{Text: "end", StartBeat: 11, EndBeat: 12, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "x", StartBeat: 0, EndBeat: 1, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "la", StartBeat: 10, EndBeat: 11, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "x", StartBeat: 1, EndBeat: 2, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "x", StartBeat: 2, EndBeat: 3, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "x", StartBeat: 3, EndBeat: 4, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "x", StartBeat: 4, EndBeat: 5, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "la", StartBeat: 50, EndBeat: 51, StartTimeMs: 0, EndTimeMs: 500},
	})
	if got := c.Choose("la", []int{0}); got != 2 {
		t.Errorf("Choose(la, [end@12]) = %d, want 2", got)
	}
}

func TestChoose_NoStrictlyCloserOccurrence(t *testing.T) {
	c := mustCorpus(t, testTokens())

	// Last selected token is "hey" ending at beat 1. Occurrences of "la"
	// start at beats 4, 10 and 50; the winner must be at distance <= all.
	got := c.Choose("la", []int{0})
	lastBeat := c.Token(0).EndBeat
	winDiff := math.Abs(c.Token(got).StartBeat - lastBeat)
	for _, o := range c.Occurrences("la") {
		if diff := math.Abs(c.Token(o).StartBeat - lastBeat); diff < winDiff {
			t.Errorf("occurrence %d at distance %v beats the winner %d at %v", o, diff, got, winDiff)
		}
	}
}

func TestChoose_TieBreaksToEarliestOccurrence(t *testing.T) {
	// Two "la" occurrences equidistant from the last end beat (8): one
	// starting at 6, one at 10. The earlier corpus index must win.
	c := mustCorpus(t, []Token{
		{Text: "end", StartBeat: 7, EndBeat: 8, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "la", StartBeat: 6, EndBeat: 7, StartTimeMs: 0, EndTimeMs: 500},
		{Text: "la", StartBeat: 10, EndBeat: 11, StartTimeMs: 0, EndTimeMs: 500},
	})
	if got := c.Choose("la", []int{0}); got != 1 {
		t.Errorf("Choose(la, tie) = %d, want 1", got)
	}
}

func TestChoose_UnknownText(t *testing.T) {
	c := mustCorpus(t, testTokens())
	if got := c.Choose("nope", nil); got != -1 {
		t.Errorf("Choose(nope, nil) = %d, want -1", got)
	}
}

func TestTextsAndMatchPrefix(t *testing.T) {
	c := mustCorpus(t, testTokens())

	want := []string{"hey", "la", "sun"}
	if got := c.Texts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Texts() = %v, want %v", got, want)
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"", []string{"hey", "la", "sun"}},
		{"l", []string{"la"}},
		{"la", []string{"la"}},
		{"z", []string{}},
	}
	for _, tt := range tests {
		got := c.MatchPrefix(tt.prefix)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("MatchPrefix(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}

func TestDefaultCorpusLoads(t *testing.T) {
	c := Default()
	if c.Len() == 0 {
		t.Fatal("embedded demo corpus is empty")
	}
	// The demo corpus needs repeated texts for disambiguation to matter.
	repeated := 0
	for _, text := range c.Texts() {
		if len(c.Occurrences(text)) > 1 {
			repeated++
		}
	}
	if repeated == 0 {
		t.Error("demo corpus has no repeated token texts")
	}
}
