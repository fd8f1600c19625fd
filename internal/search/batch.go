package search

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// QueryResult is the outcome of one query in a batch run. A malformed
// query is reported in Err rather than failing the whole batch; the
// caller decides whether to skip or abort.
type QueryResult struct {
	Query  string
	DocIDs []string
	Err    error
}

// RunBatch evaluates queries concurrently against the evaluator's index
// and returns one result per query, in input order. The index must not
// be written to while a batch is running; query evaluation itself touches
// no shared mutable state.
func RunBatch(ctx context.Context, ev *Evaluator, queries []string, concurrency int) []QueryResult {
	if concurrency <= 0 {
		concurrency = 4
	}
	results := make([]QueryResult, len(queries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, query := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = QueryResult{Query: query, Err: err}
				return nil
			}
			docs, err := ev.Retrieve(query)
			results[i] = QueryResult{Query: query, DocIDs: docs, Err: err}
			return nil
		})
	}
	g.Wait()
	return results
}
