// Command searchd serves the inverted index over HTTP: document ingestion
// (direct or via Kafka), RPN Boolean search with optional Redis result
// caching, collection statistics, health probes, and Prometheus metrics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/keren-or1/inverted-index/internal/httpapi"
	"github.com/keren-or1/inverted-index/internal/index"
	"github.com/keren-or1/inverted-index/internal/index/tokenizer"
	"github.com/keren-or1/inverted-index/internal/search"
	"github.com/keren-or1/inverted-index/internal/search/cache"
	"github.com/keren-or1/inverted-index/internal/source"
	"github.com/keren-or1/inverted-index/pkg/config"
	"github.com/keren-or1/inverted-index/pkg/health"
	"github.com/keren-or1/inverted-index/pkg/kafka"
	"github.com/keren-or1/inverted-index/pkg/logger"
	"github.com/keren-or1/inverted-index/pkg/metrics"
	"github.com/keren-or1/inverted-index/pkg/middleware"
	pkgpostgres "github.com/keren-or1/inverted-index/pkg/postgres"
	pkgredis "github.com/keren-or1/inverted-index/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	dataDir := flag.String("data", "", "optional collection directory to index at startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ix := index.NewWithTokenizer(tokenizer.New(cfg.Index.Punctuation))
	ev := search.NewEvaluator(ix)

	if *dataDir != "" {
		src, err := source.NewDir(*dataDir)
		if err != nil {
			slog.Error("failed to open collection directory", "dir", *dataDir, "error", err)
			os.Exit(1)
		}
		added, err := source.IndexAll(ctx, ix, src)
		if err != nil {
			slog.Error("startup index build failed", "error", err)
			os.Exit(1)
		}
		slog.Info("startup collection indexed", "documents", added)
	}

	if cfg.Postgres.Enabled {
		pgClient, err := pkgpostgres.New(cfg.Postgres)
		if err != nil {
			slog.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		pgSource, err := source.NewPostgres(ctx, pgClient, cfg.Postgres.Table)
		if err != nil {
			slog.Error("failed to open postgres document source", "error", err)
			os.Exit(1)
		}
		added, err := source.IndexAll(ctx, ix, pgSource)
		pgSource.Close()
		pgClient.Close()
		if err != nil {
			slog.Error("postgres index build failed", "error", err)
			os.Exit(1)
		}
		slog.Info("postgres collection indexed", "documents", added, "table", cfg.Postgres.Table)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.CollectionSize.Set(float64(ix.CollectionSize()))
		m.VocabularySize.Set(float64(ix.VocabularySize()))
	}

	var queryCache *cache.QueryCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, query caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			queryCache = cache.New(redisClient, cfg.Redis)
			slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka, cfg.Kafka.IngestTopic)
		defer producer.Close()
	}

	srv := httpapi.New(ix, ev, queryCache, producer, m, cfg.Index.StatsTerms)

	if cfg.Kafka.Enabled {
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.IngestTopic, source.KafkaHandler(srv.IndexDocument))
		go func() {
			if err := consumer.Start(ctx); err != nil {
				slog.Error("ingest consumer stopped", "error", err)
			}
		}()
		slog.Info("ingest consumer started", "topic", cfg.Kafka.IngestTopic)
	}

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{
			Status:  health.StatusUp,
			Message: fmt.Sprintf("%d documents", ix.CollectionSize()),
		}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/documents", srv.AddDocument)
	mux.HandleFunc("GET /api/v1/search", srv.Search)
	mux.HandleFunc("GET /api/v1/stats", srv.Stats)
	mux.HandleFunc("GET /api/v1/terms", srv.TermFrequency)
	mux.HandleFunc("GET /api/v1/cache/stats", srv.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", srv.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	if cfg.Metrics.Enabled {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			slog.Info("metrics server listening", "addr", addr)
			if err := http.ListenAndServe(addr, metrics.Handler()); err != nil {
				slog.Error("metrics server error", "error", err)
			}
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}
