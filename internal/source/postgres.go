package source

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/lib/pq"

	"github.com/keren-or1/inverted-index/pkg/postgres"
)

// PostgresSource streams documents from a table with (external_id, body)
// columns, ordered by external_id for deterministic internal ID
// assignment across runs.
type PostgresSource struct {
	rows *sql.Rows
}

// NewPostgres starts streaming from the given table. Close must be called
// once the source is drained.
func NewPostgres(ctx context.Context, client *postgres.Client, table string) (*PostgresSource, error) {
	query := fmt.Sprintf(
		`SELECT external_id, body FROM %s ORDER BY external_id`,
		pq.QuoteIdentifier(table),
	)
	rows, err := client.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying document table %s: %w", table, err)
	}
	return &PostgresSource{rows: rows}, nil
}

// Next returns the next row as a Document, or io.EOF after the last row.
func (s *PostgresSource) Next(ctx context.Context) (Document, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return Document{}, fmt.Errorf("iterating document rows: %w", err)
		}
		return Document{}, io.EOF
	}
	var doc Document
	if err := s.rows.Scan(&doc.ID, &doc.Text); err != nil {
		return Document{}, fmt.Errorf("scanning document row: %w", err)
	}
	return doc, nil
}

// Close releases the underlying row set.
func (s *PostgresSource) Close() error {
	return s.rows.Close()
}
