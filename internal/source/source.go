// Package source supplies documents and queries to the retrieval core.
// It keeps all collection-format knowledge (TREC files, Postgres tables,
// Kafka topics) out of the index itself: every source yields plain
// (external ID, text) pairs.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/keren-or1/inverted-index/internal/index"
)

// Document is one unit of indexable content.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Documents yields documents one at a time. Next returns io.EOF when the
// source is exhausted.
type Documents interface {
	Next(ctx context.Context) (Document, error)
}

// IndexAll drains src into ix and returns the number of documents added.
// Duplicate external IDs are logged and skipped so that a re-delivered
// document cannot abort a whole collection build; any other error stops
// the build.
func IndexAll(ctx context.Context, ix *index.Index, src Documents) (int, error) {
	logger := slog.Default().With("component", "document-source")
	added := 0
	for {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		doc, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return added, nil
		}
		if err != nil {
			return added, fmt.Errorf("reading document source: %w", err)
		}
		if _, err := ix.AddDocument(doc.ID, doc.Text); err != nil {
			if index.IsDuplicate(err) {
				logger.Warn("skipping duplicate document", "doc_id", doc.ID)
				continue
			}
			return added, fmt.Errorf("indexing document %s: %w", doc.ID, err)
		}
		added++
	}
}
