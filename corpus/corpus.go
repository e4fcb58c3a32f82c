package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrEmptyCorpus  = errors.New("corpus contains no tokens")
	ErrInvalidToken = errors.New("invalid token")
)

// Token is one timestamped lyric fragment of the source song. Index is the
// token's position in corpus order and doubles as its identity everywhere
// else in the program (selections, share codes, playback markers).
type Token struct {
	Index       int     `json:"-"`
	Text        string  `json:"text"`
	StartBeat   float64 `json:"startBeat"`
	EndBeat     float64 `json:"endBeat"`
	StartTimeMs float64 `json:"startTimeMs"`
	EndTimeMs   float64 `json:"endTimeMs"`
	Emoji       string  `json:"emoji,omitempty"`
}

// DurationMs returns the token's nominal audible length.
func (t Token) DurationMs() float64 {
	return t.EndTimeMs - t.StartTimeMs
}

// Corpus is the immutable, ordered token list of one song plus an occurrence
// index from token text to the corpus positions sharing that text.
type Corpus struct {
	tokens []Token
	index  map[string][]int
}

// New validates the given tokens, assigns their indices from position and
// builds the occurrence index. The returned corpus never changes.
func New(tokens []Token) (*Corpus, error) {
	if len(tokens) == 0 {
		return nil, ErrEmptyCorpus
	}
	c := &Corpus{
		tokens: make([]Token, len(tokens)),
		index:  make(map[string][]int),
	}
	for i, tok := range tokens {
		if err := validate(tok); err != nil {
			return nil, fmt.Errorf("token %d (%q): %w", i, tok.Text, err)
		}
		tok.Index = i
		c.tokens[i] = tok
		c.index[tok.Text] = append(c.index[tok.Text], i)
	}
	return c, nil
}

func validate(tok Token) error {
	if strings.TrimSpace(tok.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidToken)
	}
	for _, v := range []float64{tok.StartBeat, tok.EndBeat, tok.StartTimeMs, tok.EndTimeMs} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite timing value", ErrInvalidToken)
		}
	}
	if tok.StartTimeMs < 0 {
		return fmt.Errorf("%w: negative start time", ErrInvalidToken)
	}
	if tok.EndTimeMs < tok.StartTimeMs {
		return fmt.Errorf("%w: end time before start time", ErrInvalidToken)
	}
	return nil
}

// Parse builds a corpus from its JSON form: an array of token records.
func Parse(data []byte) (*Corpus, error) {
	var tokens []Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("parsing corpus: %w", err)
	}
	return New(tokens)
}

// Load reads a corpus JSON file from disk. Tokens with missing or malformed
// timing fields are rejected here, so every token past this point carries
// usable beat and time ranges.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Len returns the number of tokens.
func (c *Corpus) Len() int {
	return len(c.tokens)
}

// Token returns the token at the given corpus index. Panics on out-of-range
// indices; selections are validated at their entry points.
func (c *Corpus) Token(i int) Token {
	return c.tokens[i]
}

// Tokens returns a copy of all tokens in corpus order.
func (c *Corpus) Tokens() []Token {
	out := make([]Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// HasText reports whether at least one token has exactly the given text.
func (c *Corpus) HasText(text string) bool {
	return len(c.index[text]) > 0
}

// Occurrences returns the corpus indices of all tokens with the given text,
// in corpus order.
func (c *Corpus) Occurrences(text string) []int {
	occ := c.index[text]
	out := make([]int, len(occ))
	copy(out, occ)
	return out
}

// Texts returns the distinct token texts, sorted.
func (c *Corpus) Texts() []string {
	texts := lo.Uniq(lo.Map(c.tokens, func(t Token, _ int) string { return t.Text }))
	sort.Strings(texts)
	return texts
}

// MatchPrefix returns the distinct token texts starting with the given
// prefix, sorted. An empty prefix matches every text.
func (c *Corpus) MatchPrefix(prefix string) []string {
	return lo.Filter(c.Texts(), func(text string, _ int) bool {
		return strings.HasPrefix(text, prefix)
	})
}

// Choose picks the corpus index to append for the given token text, given
// the current selection. With a single occurrence it is returned as-is. With
// several, the occurrence whose start beat lies closest to the end beat of
// the selection's last token wins; an empty selection picks the first
// occurrence in corpus order. Ties go to the earliest occurrence, which the
// strict < comparison below guarantees without extra bookkeeping.
//
// Returns -1 when no token has the given text; callers are expected to offer
// only texts present in the corpus.
func (c *Corpus) Choose(text string, selection []int) int {
	occ := c.index[text]
	switch {
	case len(occ) == 0:
		return -1
	case len(occ) == 1:
		return occ[0]
	case len(selection) == 0:
		return occ[0]
	}
	lastBeat := c.tokens[selection[len(selection)-1]].EndBeat
	best := occ[0]
	bestDiff := math.Abs(c.tokens[best].StartBeat - lastBeat)
	for _, o := range occ[1:] {
		if diff := math.Abs(c.tokens[o].StartBeat - lastBeat); diff < bestDiff {
			best, bestDiff = o, diff
		}
	}
	return best
}
