// Package tokenizer turns raw document text into normalised index terms.
// It splits on whitespace, strips leading and trailing punctuation from
// each unit, and lower-cases the result. No stemming and no stop-word
// removal, so index-time and query-time normalisation stay identical.
package tokenizer

import (
	"iter"
	"strings"
)

// DefaultPunctuation is the character set stripped from the edges of each
// whitespace-delimited unit. It covers the full ASCII punctuation range.
const DefaultPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Tokenizer is a stateless text normaliser. The zero value is not usable;
// construct one with New.
type Tokenizer struct {
	cutset string
}

// New returns a Tokenizer that strips the given punctuation characters.
// An empty cutset selects DefaultPunctuation.
func New(cutset string) *Tokenizer {
	if cutset == "" {
		cutset = DefaultPunctuation
	}
	return &Tokenizer{cutset: cutset}
}

// Terms returns a lazy, restartable sequence of the normalised terms in
// text, in order of appearance. Units that become empty after stripping
// are dropped. The same text always yields the same sequence.
func (t *Tokenizer) Terms(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for word := range strings.FieldsSeq(text) {
			term := t.Normalize(word)
			if term == "" {
				continue
			}
			if !yield(term) {
				return
			}
		}
	}
}

// Tokenize materialises Terms into a slice.
func (t *Tokenizer) Tokenize(text string) []string {
	var terms []string
	for term := range t.Terms(text) {
		terms = append(terms, term)
	}
	return terms
}

// Normalize strips edge punctuation from a single unit and lower-cases it.
// Normalising an already-normalised term returns it unchanged.
func (t *Tokenizer) Normalize(word string) string {
	return strings.ToLower(strings.Trim(word, t.cutset))
}
