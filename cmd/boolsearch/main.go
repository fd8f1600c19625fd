// Command boolsearch builds an inverted index from a directory of
// TREC-style collection files, evaluates a file of RPN Boolean queries
// against it, and writes the per-query results plus a collection
// statistics report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/keren-or1/inverted-index/internal/index"
	"github.com/keren-or1/inverted-index/internal/index/tokenizer"
	"github.com/keren-or1/inverted-index/internal/search"
	"github.com/keren-or1/inverted-index/internal/source"
	"github.com/keren-or1/inverted-index/internal/stats"
	"github.com/keren-or1/inverted-index/pkg/logger"
)

func main() {
	dataDir := flag.String("data", "data", "directory of collection files (.zip archives or plain TREC files)")
	queriesFile := flag.String("queries", "", "file with one RPN query per line")
	outFile := flag.String("out", "results.txt", "output file for query results")
	statsFile := flag.String("stats", "", "output file for collection statistics (omit to skip)")
	statsTerms := flag.Int("stats-terms", 10, "number of top/bottom terms in the statistics report")
	concurrency := flag.Int("concurrency", 4, "parallel query evaluations")
	punctuation := flag.String("punctuation", "", "punctuation characters stripped from token edges (default set if empty)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	logger.Setup(*logLevel, "text")
	ctx := context.Background()

	ix := index.NewWithTokenizer(tokenizer.New(*punctuation))
	src, err := source.NewDir(*dataDir)
	if err != nil {
		slog.Error("failed to open collection directory", "dir", *dataDir, "error", err)
		os.Exit(1)
	}
	added, err := source.IndexAll(ctx, ix, src)
	if err != nil {
		slog.Error("index build failed", "error", err)
		os.Exit(1)
	}
	slog.Info("index built",
		"documents", ix.CollectionSize(),
		"terms", ix.VocabularySize(),
		"added", added,
	)

	if *queriesFile != "" {
		if err := runQueries(ctx, ix, *queriesFile, *outFile, *concurrency); err != nil {
			slog.Error("query run failed", "error", err)
			os.Exit(1)
		}
	}

	if *statsFile != "" {
		if err := writeStats(ix, *statsFile, *statsTerms); err != nil {
			slog.Error("statistics report failed", "error", err)
			os.Exit(1)
		}
	}
}

// runQueries evaluates every query in queriesFile and writes one line of
// space-separated external document IDs per query, in query order. A
// malformed query yields an empty line and a warning, matching the
// skip-and-continue batch policy.
func runQueries(ctx context.Context, ix *index.Index, queriesFile, outFile string, concurrency int) error {
	f, err := os.Open(queriesFile)
	if err != nil {
		return fmt.Errorf("opening queries file: %w", err)
	}
	queries, err := source.ReadQueries(f)
	f.Close()
	if err != nil {
		return err
	}
	slog.Info("queries loaded", "count", len(queries))

	ev := search.NewEvaluator(ix)
	results := search.RunBatch(ctx, ev, queries, concurrency)

	out, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer out.Close()

	for _, result := range results {
		if result.Err != nil {
			slog.Warn("skipping query", "query", result.Query, "error", result.Err)
			fmt.Fprintln(out)
			continue
		}
		slog.Info("query evaluated", "query", result.Query, "hits", len(result.DocIDs))
		fmt.Fprintln(out, strings.Join(result.DocIDs, " "))
	}
	slog.Info("results written", "file", outFile)
	return nil
}

func writeStats(ix *index.Index, statsFile string, n int) error {
	report, err := stats.Collect(ix, n)
	if err != nil {
		return err
	}
	f, err := os.Create(statsFile)
	if err != nil {
		return fmt.Errorf("creating statistics file: %w", err)
	}
	defer f.Close()
	if err := report.Render(f); err != nil {
		return fmt.Errorf("writing statistics: %w", err)
	}
	slog.Info("statistics written", "file", statsFile)
	return nil
}
