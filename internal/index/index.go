// Package index implements an in-memory inverted index. Each term maps to
// a postings list of internal document IDs, and a bijection translates
// between caller-supplied external IDs and the dense internal IDs used by
// the merge algorithms in the search package.
package index

import (
	"errors"
	"sort"

	"github.com/keren-or1/inverted-index/internal/index/tokenizer"
	apperrors "github.com/keren-or1/inverted-index/pkg/errors"
)

// IsDuplicate reports whether err came from re-adding an external ID.
func IsDuplicate(err error) bool {
	return errors.Is(err, apperrors.ErrDuplicateDocument)
}

// Index owns the term to postings mapping and the document ID bijection.
// It is append-only: documents are never removed or updated. Methods are
// not safe for concurrent use; callers that interleave indexing and
// querying must hold an external readers-writer lock.
type Index struct {
	tok         *tokenizer.Tokenizer
	postings    map[string][]int
	externalIDs []string       // internal ID -> external ID
	internalIDs map[string]int // external ID -> internal ID
}

// New creates an empty Index with the default tokenizer.
func New() *Index {
	return NewWithTokenizer(tokenizer.New(""))
}

// NewWithTokenizer creates an empty Index using the given tokenizer for
// both document text and query-term normalisation.
func NewWithTokenizer(tok *tokenizer.Tokenizer) *Index {
	return &Index{
		tok:         tok,
		postings:    make(map[string][]int),
		internalIDs: make(map[string]int),
	}
}

// AddDocument tokenizes text and records every distinct term against a
// freshly assigned internal ID. Internal IDs are dense and strictly
// increasing in insertion order, starting at 0, so appending at the tail
// keeps every postings list sorted without re-sorting.
//
// Re-adding an external ID fails with ErrDuplicateDocument; an empty
// external ID fails with ErrInvalidInput.
func (ix *Index) AddDocument(externalID, text string) (int, error) {
	if externalID == "" {
		return 0, apperrors.New(apperrors.ErrInvalidInput, 400, "external document ID must not be empty")
	}
	if _, exists := ix.internalIDs[externalID]; exists {
		return 0, apperrors.Newf(apperrors.ErrDuplicateDocument, 409, "document %q", externalID)
	}

	id := len(ix.externalIDs)
	ix.externalIDs = append(ix.externalIDs, externalID)
	ix.internalIDs[externalID] = id

	for term := range ix.tok.Terms(text) {
		list := ix.postings[term]
		// Repeated occurrences within one document are always at the
		// tail, since id is the largest ID assigned so far.
		if n := len(list); n > 0 && list[n-1] == id {
			continue
		}
		ix.postings[term] = append(list, id)
	}
	return id, nil
}

// Postings returns the sorted internal IDs of documents containing term.
// The term is normalised first, so query-time lookups match index-time
// tokenization. Unknown terms yield an empty list, never an error. The
// returned slice is a copy and safe for the caller to retain.
func (ix *Index) Postings(term string) []int {
	list := ix.postings[ix.tok.Normalize(term)]
	if len(list) == 0 {
		return nil
	}
	out := make([]int, len(list))
	copy(out, list)
	return out
}

// DocumentFrequency returns the number of documents containing term.
func (ix *Index) DocumentFrequency(term string) int {
	return len(ix.postings[ix.tok.Normalize(term)])
}

// ExternalID translates a single internal ID back to its external ID.
func (ix *Index) ExternalID(id int) (string, error) {
	if id < 0 || id >= len(ix.externalIDs) {
		return "", apperrors.Newf(apperrors.ErrUnknownDocumentID, 500, "internal ID %d was never assigned", id)
	}
	return ix.externalIDs[id], nil
}

// ExternalIDs translates a sequence of internal IDs to external IDs,
// preserving order. It fails with ErrUnknownDocumentID if any ID was
// never assigned, which indicates a bug in the caller.
func (ix *Index) ExternalIDs(ids []int) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		ext, err := ix.ExternalID(id)
		if err != nil {
			return nil, err
		}
		out = append(out, ext)
	}
	return out, nil
}

// VocabularySize returns the number of distinct terms indexed.
func (ix *Index) VocabularySize() int {
	return len(ix.postings)
}

// CollectionSize returns the number of documents indexed. It is also the
// exclusive upper bound of the internal ID universe.
func (ix *Index) CollectionSize() int {
	return len(ix.externalIDs)
}

// Terms returns every indexed term in lexicographic order.
func (ix *Index) Terms() []string {
	terms := make([]string, 0, len(ix.postings))
	for term := range ix.postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
