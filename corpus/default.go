package corpus

import (
	_ "embed"
)

// Embedded demo corpus, used when no corpus file is given.
//
//go:embed demo_corpus.json
var demoCorpusJSON []byte

// Default returns the embedded demo corpus. The embedded file is part of the
// build, so a parse failure here is a broken build rather than a runtime
// condition.
func Default() *Corpus {
	c, err := Parse(demoCorpusJSON)
	if err != nil {
		panic("embedded demo corpus is invalid: " + err.Error())
	}
	return c
}
