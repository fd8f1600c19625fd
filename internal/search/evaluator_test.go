package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/keren-or1/inverted-index/internal/index"
	apperrors "github.com/keren-or1/inverted-index/pkg/errors"
)

// newTestIndex builds the three-document collection used throughout:
// d1 "iran deal", d2 "israel deal", d3 "iran israel".
func newTestIndex(t *testing.T) *index.Index {
	t.Helper()
	ix := index.New()
	docs := [][2]string{
		{"d1", "iran deal"},
		{"d2", "israel deal"},
		{"d3", "iran israel"},
	}
	for _, doc := range docs {
		if _, err := ix.AddDocument(doc[0], doc[1]); err != nil {
			t.Fatalf("AddDocument(%q): %v", doc[0], err)
		}
	}
	return ix
}

func TestProcessQuery(t *testing.T) {
	ev := NewEvaluator(newTestIndex(t))

	tests := []struct {
		name  string
		query string
		want  []int
	}{
		{"single term", "iran", []int{0, 2}},
		{"and", "iran israel AND", []int{2}},
		{"or", "iran israel OR", []int{0, 1, 2}},
		{"and not", "deal iran NOT", []int{1}},
		{"bare not", "iran NOT", []int{1}},
		{"nested", "iran israel OR deal AND", []int{0, 1}},
		{"unknown term", "absent", []int{}},
		{"unknown term and", "iran absent AND", []int{}},
		{"unknown term or", "absent iran OR", []int{0, 2}},
		{"not of unknown term", "deal absent NOT", []int{0, 1}},
		{"query-time normalization", "Iran. ISRAEL, AND", []int{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.ProcessQuery(tt.query)
			if err != nil {
				t.Fatalf("ProcessQuery(%q): %v", tt.query, err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("ProcessQuery(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestProcessQueryMalformed(t *testing.T) {
	ev := NewEvaluator(newTestIndex(t))

	queries := []string{
		"AND iran",
		"iran AND",
		"OR",
		"NOT",
		"iran israel",
		"",
		"   ",
		"iran israel AND deal",
	}
	for _, query := range queries {
		if _, err := ev.ProcessQuery(query); !errors.Is(err, apperrors.ErrMalformedQuery) {
			t.Errorf("ProcessQuery(%q): got %v, want ErrMalformedQuery", query, err)
		}
	}
}

func TestRetrieve(t *testing.T) {
	ev := NewEvaluator(newTestIndex(t))

	tests := []struct {
		query string
		want  []string
	}{
		{"iran israel AND", []string{"d3"}},
		{"iran israel OR", []string{"d1", "d2", "d3"}},
		{"deal iran NOT", []string{"d2"}},
		{"deal", []string{"d1", "d2"}},
		{"absent", []string{}},
	}
	for _, tt := range tests {
		got, err := ev.Retrieve(tt.query)
		if err != nil {
			t.Fatalf("Retrieve(%q): %v", tt.query, err)
		}
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Retrieve(%q) mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
}

func TestRetrieveMalformed(t *testing.T) {
	ev := NewEvaluator(newTestIndex(t))
	if _, err := ev.Retrieve("AND iran"); !errors.Is(err, apperrors.ErrMalformedQuery) {
		t.Errorf("Retrieve(AND iran): got %v, want ErrMalformedQuery", err)
	}
}

// A term query must retrieve exactly the documents whose raw text
// contains the term, regardless of case and punctuation.
func TestRetrieveMatchesRawText(t *testing.T) {
	ix := index.New()
	docs := [][2]string{
		{"a", "The DEAL was announced."},
		{"b", "No mention here."},
		{"c", "deal, finally!"},
	}
	for _, doc := range docs {
		if _, err := ix.AddDocument(doc[0], doc[1]); err != nil {
			t.Fatal(err)
		}
	}
	ev := NewEvaluator(ix)
	got, err := ev.Retrieve("deal")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, got); diff != "" {
		t.Errorf("Retrieve(deal) mismatch (-want +got):\n%s", diff)
	}
}

func TestRunBatch(t *testing.T) {
	ev := NewEvaluator(newTestIndex(t))
	queries := []string{
		"iran israel AND",
		"AND iran",
		"deal iran NOT",
	}
	results := RunBatch(context.Background(), ev, queries, 2)
	if len(results) != len(queries) {
		t.Fatalf("RunBatch returned %d results, want %d", len(results), len(queries))
	}
	for i, result := range results {
		if result.Query != queries[i] {
			t.Errorf("result %d out of order: got query %q, want %q", i, result.Query, queries[i])
		}
	}
	if diff := cmp.Diff([]string{"d3"}, results[0].DocIDs); diff != "" {
		t.Errorf("batch result 0 mismatch (-want +got):\n%s", diff)
	}
	if !errors.Is(results[1].Err, apperrors.ErrMalformedQuery) {
		t.Errorf("batch result 1: got err %v, want ErrMalformedQuery", results[1].Err)
	}
	if diff := cmp.Diff([]string{"d2"}, results[2].DocIDs); diff != "" {
		t.Errorf("batch result 2 mismatch (-want +got):\n%s", diff)
	}
}

func TestRunBatchCancelled(t *testing.T) {
	ev := NewEvaluator(newTestIndex(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := RunBatch(ctx, ev, []string{"iran", "deal"}, 1)
	for _, result := range results {
		if result.Err == nil && result.DocIDs == nil {
			t.Errorf("cancelled batch produced neither result nor error for %q", result.Query)
		}
	}
}
