package index

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/keren-or1/inverted-index/pkg/errors"
)

func buildIndex(t *testing.T, docs ...[2]string) *Index {
	t.Helper()
	ix := New()
	for _, doc := range docs {
		if _, err := ix.AddDocument(doc[0], doc[1]); err != nil {
			t.Fatalf("AddDocument(%q): %v", doc[0], err)
		}
	}
	return ix
}

func TestAddDocumentAssignsSequentialIDs(t *testing.T) {
	ix := New()
	for i, ext := range []string{"d1", "d2", "d3"} {
		id, err := ix.AddDocument(ext, "some text")
		if err != nil {
			t.Fatalf("AddDocument(%q): %v", ext, err)
		}
		if id != i {
			t.Errorf("AddDocument(%q) = %d, want %d", ext, id, i)
		}
	}
	if got := ix.CollectionSize(); got != 3 {
		t.Errorf("CollectionSize() = %d, want 3", got)
	}
}

func TestAddDocumentDuplicate(t *testing.T) {
	ix := buildIndex(t, [2]string{"d1", "iran deal"})
	if _, err := ix.AddDocument("d1", "different text"); !errors.Is(err, apperrors.ErrDuplicateDocument) {
		t.Errorf("re-adding d1: got %v, want ErrDuplicateDocument", err)
	}
	// The failed insert must not have consumed an internal ID.
	if got := ix.CollectionSize(); got != 1 {
		t.Errorf("CollectionSize() after duplicate = %d, want 1", got)
	}
}

func TestAddDocumentEmptyID(t *testing.T) {
	ix := New()
	if _, err := ix.AddDocument("", "text"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("empty external ID: got %v, want ErrInvalidInput", err)
	}
}

func TestPostingsSortedAndDeduplicated(t *testing.T) {
	ix := buildIndex(t,
		[2]string{"d1", "deal deal deal"},
		[2]string{"d2", "other"},
		[2]string{"d3", "deal again deal"},
	)
	got := ix.Postings("deal")
	if diff := cmp.Diff([]int{0, 2}, got); diff != "" {
		t.Errorf("Postings(deal) mismatch (-want +got):\n%s", diff)
	}
}

func TestPostingsStrictlyIncreasing(t *testing.T) {
	ix := New()
	for i := 0; i < 50; i++ {
		text := "common"
		if i%3 == 0 {
			text += " sparse"
		}
		if _, err := ix.AddDocument(fmt.Sprintf("doc-%03d", i), text); err != nil {
			t.Fatal(err)
		}
	}
	for _, term := range []string{"common", "sparse"} {
		postings := ix.Postings(term)
		for i := 1; i < len(postings); i++ {
			if postings[i] <= postings[i-1] {
				t.Fatalf("Postings(%q) not strictly increasing at %d: %v", term, i, postings)
			}
		}
	}
}

func TestPostingsNormalizesQueryTerm(t *testing.T) {
	ix := buildIndex(t, [2]string{"d1", "Iran, deal."})
	if diff := cmp.Diff([]int{0}, ix.Postings("IRAN.")); diff != "" {
		t.Errorf("Postings(IRAN.) mismatch (-want +got):\n%s", diff)
	}
}

func TestPostingsUnknownTerm(t *testing.T) {
	ix := buildIndex(t, [2]string{"d1", "iran deal"})
	if got := ix.Postings("missing"); len(got) != 0 {
		t.Errorf("Postings(missing) = %v, want empty", got)
	}
	if got := ix.DocumentFrequency("missing"); got != 0 {
		t.Errorf("DocumentFrequency(missing) = %d, want 0", got)
	}
}

func TestPostingsReturnsCopy(t *testing.T) {
	ix := buildIndex(t, [2]string{"d1", "deal"}, [2]string{"d2", "deal"})
	first := ix.Postings("deal")
	first[0] = 99
	if diff := cmp.Diff([]int{0, 1}, ix.Postings("deal")); diff != "" {
		t.Errorf("mutating a returned postings list changed the index (-want +got):\n%s", diff)
	}
}

func TestDocumentFrequency(t *testing.T) {
	ix := buildIndex(t,
		[2]string{"d1", "iran deal"},
		[2]string{"d2", "israel deal"},
		[2]string{"d3", "iran israel"},
	)
	tests := map[string]int{"deal": 2, "iran": 2, "israel": 2}
	for term, want := range tests {
		if got := ix.DocumentFrequency(term); got != want {
			t.Errorf("DocumentFrequency(%q) = %d, want %d", term, got, want)
		}
	}
}

func TestExternalIDsRoundTrip(t *testing.T) {
	ix := buildIndex(t,
		[2]string{"AP900101-0001", "iran deal"},
		[2]string{"AP900101-0002", "israel deal"},
	)
	got, err := ix.ExternalIDs(ix.Postings("deal"))
	if err != nil {
		t.Fatalf("ExternalIDs: %v", err)
	}
	want := []string{"AP900101-0001", "AP900101-0002"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ExternalIDs mismatch (-want +got):\n%s", diff)
	}
}

func TestExternalIDsUnknown(t *testing.T) {
	ix := buildIndex(t, [2]string{"d1", "text"})
	if _, err := ix.ExternalIDs([]int{0, 7}); !errors.Is(err, apperrors.ErrUnknownDocumentID) {
		t.Errorf("ExternalIDs with unassigned ID: got %v, want ErrUnknownDocumentID", err)
	}
	if _, err := ix.ExternalID(-1); !errors.Is(err, apperrors.ErrUnknownDocumentID) {
		t.Errorf("ExternalID(-1): got %v, want ErrUnknownDocumentID", err)
	}
}

func TestVocabularyAndTerms(t *testing.T) {
	ix := buildIndex(t,
		[2]string{"d1", "banana apple"},
		[2]string{"d2", "apple cherry"},
	)
	if got := ix.VocabularySize(); got != 3 {
		t.Errorf("VocabularySize() = %d, want 3", got)
	}
	if diff := cmp.Diff([]string{"apple", "banana", "cherry"}, ix.Terms()); diff != "" {
		t.Errorf("Terms() mismatch (-want +got):\n%s", diff)
	}
}
