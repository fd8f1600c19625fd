package source

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// The AP collection ships as concatenated <DOC> blocks that are not
// well-formed XML as a whole, so the scanner extracts documents with
// regular expressions rather than an XML parser.
var (
	docRE   = regexp.MustCompile(`(?s)<DOC>(.*?)</DOC>`)
	docnoRE = regexp.MustCompile(`(?s)<DOCNO>\s*(.*?)\s*</DOCNO>`)
	textRE  = regexp.MustCompile(`(?s)<TEXT>(.*?)</TEXT>`)
)

// ParseTREC extracts all documents from a TREC-style stream. Documents
// without a DOCNO are skipped; documents without TEXT blocks yield empty
// text. Multiple TEXT blocks per document are joined with a space.
func ParseTREC(r io.Reader) ([]Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading collection stream: %w", err)
	}
	var docs []Document
	for _, m := range docRE.FindAllSubmatch(data, -1) {
		body := m[1]
		docno := docnoRE.FindSubmatch(body)
		if docno == nil {
			continue
		}
		id := strings.TrimSpace(string(docno[1]))
		if id == "" {
			continue
		}
		var parts []string
		for _, t := range textRE.FindAllSubmatch(body, -1) {
			parts = append(parts, string(t[1]))
		}
		docs = append(docs, Document{
			ID:   id,
			Text: strings.Join(parts, " "),
		})
	}
	return docs, nil
}

// DirSource walks a directory of collection files in sorted name order
// and yields their documents. Files ending in .zip are opened as archives
// and every regular entry inside is scanned; other files are scanned
// directly.
type DirSource struct {
	files   []string
	pending []Document
}

// NewDir lists the regular files under dir. The directory is read once;
// file contents are loaded lazily as Next progresses.
func NewDir(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading collection directory %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return &DirSource{files: files}, nil
}

// Next returns the next document, loading further files as needed. It
// returns io.EOF once every file is exhausted.
func (s *DirSource) Next(ctx context.Context) (Document, error) {
	for len(s.pending) == 0 {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		if len(s.files) == 0 {
			return Document{}, io.EOF
		}
		path := s.files[0]
		s.files = s.files[1:]
		docs, err := loadFile(path)
		if err != nil {
			return Document{}, err
		}
		s.pending = docs
	}
	doc := s.pending[0]
	s.pending = s.pending[1:]
	return doc, nil
}

func loadFile(path string) ([]Document, error) {
	if strings.HasSuffix(path, ".zip") {
		return loadZip(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening collection file %s: %w", path, err)
	}
	defer f.Close()
	return ParseTREC(f)
}

func loadZip(path string) ([]Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening collection archive %s: %w", path, err)
	}
	defer zr.Close()

	var docs []Document
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() || strings.HasSuffix(entry.Name, ".zip") {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("opening archive entry %s: %w", entry.Name, err)
		}
		parsed, err := ParseTREC(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("parsing archive entry %s: %w", entry.Name, err)
		}
		docs = append(docs, parsed...)
	}
	return docs, nil
}
