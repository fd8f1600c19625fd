// Package stats produces collection statistics from an inverted index:
// the top and bottom terms ranked by document frequency, with their
// postings expressed as external document IDs.
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/keren-or1/inverted-index/internal/index"
)

// TermCount is one term with its document frequency and the external IDs
// of the documents containing it.
type TermCount struct {
	Term      string   `json:"term"`
	DocFreq   int      `json:"doc_freq"`
	Documents []string `json:"documents"`
}

// Report holds the collection statistics for the result sink.
type Report struct {
	CollectionSize int         `json:"collection_size"`
	VocabularySize int         `json:"vocabulary_size"`
	Top            []TermCount `json:"top"`
	Bottom         []TermCount `json:"bottom"`
}

// Collect ranks every indexed term by document frequency (ties broken
// lexicographically) and returns the n highest and n lowest entries.
func Collect(ix *index.Index, n int) (*Report, error) {
	if n <= 0 {
		n = 10
	}
	terms := ix.Terms()
	sort.SliceStable(terms, func(i, j int) bool {
		fi, fj := ix.DocumentFrequency(terms[i]), ix.DocumentFrequency(terms[j])
		if fi != fj {
			return fi > fj
		}
		return terms[i] < terms[j]
	})

	report := &Report{
		CollectionSize: ix.CollectionSize(),
		VocabularySize: ix.VocabularySize(),
	}
	top := min(n, len(terms))
	for _, term := range terms[:top] {
		entry, err := termCount(ix, term)
		if err != nil {
			return nil, err
		}
		report.Top = append(report.Top, entry)
	}
	bottom := min(n, len(terms))
	for _, term := range terms[len(terms)-bottom:] {
		entry, err := termCount(ix, term)
		if err != nil {
			return nil, err
		}
		report.Bottom = append(report.Bottom, entry)
	}
	return report, nil
}

func termCount(ix *index.Index, term string) (TermCount, error) {
	docs, err := ix.ExternalIDs(ix.Postings(term))
	if err != nil {
		return TermCount{}, fmt.Errorf("translating postings for %q: %w", term, err)
	}
	return TermCount{
		Term:      term,
		DocFreq:   ix.DocumentFrequency(term),
		Documents: docs,
	}, nil
}

// Render writes the report as a plain-text summary.
func (r *Report) Render(w io.Writer) error {
	rule := strings.Repeat("=", 60)
	if _, err := fmt.Fprintf(w, "%s\nCOLLECTION STATISTICS\n%s\n\nDocuments: %d\nDistinct terms: %d\n\n",
		rule, rule, r.CollectionSize, r.VocabularySize); err != nil {
		return err
	}
	if err := renderSection(w, rule, "TERMS WITH HIGHEST DOCUMENT FREQUENCY", r.Top); err != nil {
		return err
	}
	return renderSection(w, rule, "TERMS WITH LOWEST DOCUMENT FREQUENCY", r.Bottom)
}

func renderSection(w io.Writer, rule, title string, entries []TermCount) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n%s\n\n", rule, title, rule); err != nil {
		return err
	}
	for _, entry := range entries {
		if _, err := fmt.Fprintf(w, "Term: %q\nDocument Frequency: %d\nPostings: %s\n\n",
			entry.Term, entry.DocFreq, strings.Join(entry.Documents, " ")); err != nil {
			return err
		}
	}
	return nil
}
