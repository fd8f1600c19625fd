// Package httpapi exposes the index and Boolean evaluator over HTTP. It
// owns the readers-writer discipline between indexing and querying: writes
// take the exclusive lock, queries share the read lock, so the lock-free
// core stays safe under concurrent requests.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/keren-or1/inverted-index/internal/index"
	"github.com/keren-or1/inverted-index/internal/search"
	"github.com/keren-or1/inverted-index/internal/search/cache"
	"github.com/keren-or1/inverted-index/internal/source"
	"github.com/keren-or1/inverted-index/internal/stats"
	apperrors "github.com/keren-or1/inverted-index/pkg/errors"
	"github.com/keren-or1/inverted-index/pkg/kafka"
	"github.com/keren-or1/inverted-index/pkg/logger"
	"github.com/keren-or1/inverted-index/pkg/metrics"
)

// Server wires the retrieval core to HTTP handlers.
type Server struct {
	mu         sync.RWMutex
	index      *index.Index
	eval       *search.Evaluator
	cache      *cache.QueryCache
	producer   *kafka.Producer
	metrics    *metrics.Metrics
	statsTerms int
	logger     *slog.Logger
}

// New creates a Server. queryCache, producer, and m may be nil, disabling
// result caching, Kafka-based ingestion, and metric updates respectively.
func New(ix *index.Index, ev *search.Evaluator, queryCache *cache.QueryCache, producer *kafka.Producer, m *metrics.Metrics, statsTerms int) *Server {
	return &Server{
		index:      ix,
		eval:       ev,
		cache:      queryCache,
		producer:   producer,
		metrics:    m,
		statsTerms: statsTerms,
		logger:     slog.Default().With("component", "http-api"),
	}
}

// SearchResponse is the JSON body returned by the search endpoint.
type SearchResponse struct {
	Query     string   `json:"query"`
	TotalHits int      `json:"total_hits"`
	Documents []string `json:"documents"`
	CacheHit  bool     `json:"cache_hit"`
}

type addRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// IndexDocument adds one document under the write lock and invalidates
// the query cache. It is also the sink for the Kafka ingest consumer.
func (s *Server) IndexDocument(externalID, text string) error {
	s.mu.Lock()
	_, err := s.index.AddDocument(externalID, text)
	if err == nil && s.metrics != nil {
		s.metrics.DocsIndexedTotal.Inc()
		s.metrics.CollectionSize.Set(float64(s.index.CollectionSize()))
		s.metrics.VocabularySize.Set(float64(s.index.VocabularySize()))
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if s.cache != nil {
		ctx, cancel := contextWithTimeout()
		defer cancel()
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Error("cache invalidation after index failed", "error", err)
		}
	}
	return nil
}

// AddDocument handles POST /api/v1/documents. With a Kafka producer
// configured the document is published for asynchronous indexing;
// otherwise it is indexed synchronously.
func (s *Server) AddDocument(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.ID == "" {
		s.writeError(w, http.StatusBadRequest, "field 'id' is required")
		return
	}

	if s.producer != nil {
		event := kafka.Event{
			Key: req.ID,
			Value: source.IngestEvent{
				DocumentID: req.ID,
				Text:       req.Text,
				IngestedAt: time.Now().UTC(),
			},
		}
		if err := s.producer.Publish(r.Context(), event); err != nil {
			log.Error("failed to publish ingest event", "doc_id", req.ID, "error", err)
			s.writeError(w, http.StatusServiceUnavailable, "ingest pipeline unavailable")
			return
		}
		s.writeJSON(w, http.StatusAccepted, map[string]string{
			"document_id": req.ID,
			"status":      "accepted",
		})
		return
	}

	if err := s.IndexDocument(req.ID, req.Text); err != nil {
		log.Warn("add document failed", "doc_id", req.ID, "error", err)
		s.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	log.Info("document indexed", "doc_id", req.ID)
	s.writeJSON(w, http.StatusCreated, map[string]string{
		"document_id": req.ID,
		"status":      "indexed",
	})
}

// Search handles GET /api/v1/search?q=<RPN query>.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	retrieve := func() ([]string, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.eval.Retrieve(query)
	}

	var docs []string
	var err error
	cacheHit := false
	if s.cache != nil {
		docs, cacheHit, err = s.cache.GetOrCompute(ctx, query, retrieve)
	} else {
		docs, err = retrieve()
	}

	if err != nil {
		outcome := "error"
		if errors.Is(err, apperrors.ErrMalformedQuery) {
			outcome = "malformed"
		}
		s.countQuery(outcome)
		log.Warn("query failed", "query", query, "error", err)
		s.writeError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}

	s.countQuery("ok")
	if s.metrics != nil {
		cacheStatus := "disabled"
		if s.cache != nil {
			cacheStatus = "miss"
			if cacheHit {
				cacheStatus = "hit"
			}
		}
		s.metrics.QueryLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
		s.metrics.QueryResultsCount.Observe(float64(len(docs)))
		if s.cache != nil {
			if cacheHit {
				s.metrics.CacheHitsTotal.Inc()
			} else {
				s.metrics.CacheMissesTotal.Inc()
			}
		}
	}

	log.Info("search completed",
		"query", query,
		"hits", len(docs),
		"cache_hit", cacheHit,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	if docs == nil {
		docs = []string{}
	}
	s.writeJSON(w, http.StatusOK, &SearchResponse{
		Query:     query,
		TotalHits: len(docs),
		Documents: docs,
		CacheHit:  cacheHit,
	})
}

// Stats handles GET /api/v1/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	n := s.statsTerms
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}
	s.mu.RLock()
	report, err := stats.Collect(s.index, n)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Error("collecting statistics failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "statistics collection failed")
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// TermFrequency handles GET /api/v1/terms?term=<term>.
func (s *Server) TermFrequency(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if term == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter 'term' is required")
		return
	}
	s.mu.RLock()
	freq := s.index.DocumentFrequency(term)
	s.mu.RUnlock()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"term":     term,
		"doc_freq": freq,
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (s *Server) CacheStats(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}
	hits, misses := s.cache.Stats()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"hits":   hits,
		"misses": misses,
		"total":  hits + misses,
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (s *Server) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		s.writeError(w, http.StatusServiceUnavailable, "caching is disabled")
		return
	}
	if err := s.cache.Invalidate(r.Context()); err != nil {
		s.logger.Error("cache invalidation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "cache invalidation failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (s *Server) countQuery(outcome string) {
	if s.metrics != nil {
		s.metrics.QueriesTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// contextWithTimeout bounds cache invalidation triggered outside of a
// request context (e.g. the Kafka consume loop).
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}
