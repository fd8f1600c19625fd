package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/keren-or1/inverted-index/internal/index"
)

const sampleCollection = `<DOC>
<DOCNO> AP900101-0001 </DOCNO>
<TEXT>
iran deal
</TEXT>
</DOC>
<DOC>
<DOCNO>AP900101-0002</DOCNO>
<TEXT>first part</TEXT>
<TEXT>second part</TEXT>
</DOC>
<DOC>
<TEXT>no docno, skipped</TEXT>
</DOC>
<DOC>
<DOCNO>AP900101-0003</DOCNO>
</DOC>
`

func TestParseTREC(t *testing.T) {
	docs, err := ParseTREC(strings.NewReader(sampleCollection))
	if err != nil {
		t.Fatalf("ParseTREC: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("ParseTREC returned %d docs, want 3", len(docs))
	}

	if docs[0].ID != "AP900101-0001" {
		t.Errorf("docs[0].ID = %q", docs[0].ID)
	}
	if got := strings.TrimSpace(docs[0].Text); got != "iran deal" {
		t.Errorf("docs[0].Text = %q, want %q", got, "iran deal")
	}
	if got := docs[1].Text; got != "first part second part" {
		t.Errorf("multiple TEXT blocks: got %q, want %q", got, "first part second part")
	}
	if docs[2].ID != "AP900101-0003" || docs[2].Text != "" {
		t.Errorf("docs[2] = %+v, want empty-text AP900101-0003", docs[2])
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	// Two files; sorted name order fixes document order across runs.
	fileA := `<DOC><DOCNO>a1</DOCNO><TEXT>alpha</TEXT></DOC>`
	fileB := `<DOC><DOCNO>b1</DOCNO><TEXT>beta</TEXT></DOC>
<DOC><DOCNO>b2</DOCNO><TEXT>gamma</TEXT></DOC>`
	if err := os.WriteFile(filepath.Join(dir, "01.trec"), []byte(fileA), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "02.trec"), []byte(fileB), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewDir(dir)
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}
	var ids []string
	for {
		doc, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		ids = append(ids, doc.ID)
	}
	if diff := cmp.Diff([]string{"a1", "b1", "b2"}, ids); diff != "" {
		t.Errorf("document order mismatch (-want +got):\n%s", diff)
	}
}

func TestIndexAll(t *testing.T) {
	dir := t.TempDir()
	collection := `<DOC><DOCNO>d1</DOCNO><TEXT>iran deal</TEXT></DOC>
<DOC><DOCNO>d2</DOCNO><TEXT>israel deal</TEXT></DOC>
<DOC><DOCNO>d1</DOCNO><TEXT>redelivered duplicate</TEXT></DOC>`
	if err := os.WriteFile(filepath.Join(dir, "coll.trec"), []byte(collection), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	ix := index.New()
	added, err := IndexAll(context.Background(), ix, src)
	if err != nil {
		t.Fatalf("IndexAll: %v", err)
	}
	if added != 2 {
		t.Errorf("IndexAll added %d docs, want 2 (duplicate skipped)", added)
	}
	if got := ix.CollectionSize(); got != 2 {
		t.Errorf("CollectionSize() = %d, want 2", got)
	}
	if diff := cmp.Diff([]int{0, 1}, ix.Postings("deal")); diff != "" {
		t.Errorf("Postings(deal) mismatch (-want +got):\n%s", diff)
	}
}

func TestReadQueries(t *testing.T) {
	input := `# comment line
iran israel AND

deal iran NOT
   iran
`
	queries, err := ReadQueries(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadQueries: %v", err)
	}
	want := []string{"iran israel AND", "deal iran NOT", "iran"}
	if diff := cmp.Diff(want, queries); diff != "" {
		t.Errorf("ReadQueries mismatch (-want +got):\n%s", diff)
	}
}
