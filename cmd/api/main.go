package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portal_final_backend/internal/catalog/repository"
	catalogservice "portal_final_backend/internal/catalog/service"
	"portal_final_backend/internal/discovery"
	"portal_final_backend/internal/geocoder"
	apphttp "portal_final_backend/internal/http"
	"portal_final_backend/internal/http/router"
	"portal_final_backend/internal/llm"
	"portal_final_backend/internal/orchestrator"
	"portal_final_backend/internal/recommend"
	"portal_final_backend/internal/retrieval"
	"portal_final_backend/platform/ai/embeddings"
	"portal_final_backend/platform/config"
	"portal_final_backend/platform/db"
	"portal_final_backend/platform/logger"
	"portal_final_backend/platform/qdrant"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	catalogRepo, healthChecker, closeCatalog := initCatalogRepository(ctx, cfg, log)
	if closeCatalog != nil {
		defer closeCatalog()
	}

	// ========================================================================
	// Domain Collaborators (Composition Root)
	// ========================================================================

	geo := geocoder.NewService(cfg, log)
	discoveryProvider := discovery.New(cfg, cfg.GetReviewFetchConcurrency(), time.Now().UnixNano(), log)
	resolver := catalogservice.New(catalogRepo, log)

	pipeline := orchestrator.New(geo, discoveryProvider, resolver, cfg, log)

	if scorer := initEmbeddingScorer(cfg); scorer != nil {
		pipeline = pipeline.WithEmbedding(scorer)
		log.Info("embedding blend enabled", "url", cfg.GetEmbeddingAPIURL())
	}

	if cfg.GetLLMEnabled() {
		wireLLMCollaborators(cfg, log, pipeline)
	} else {
		log.Info("llm collaborators disabled; using rule-based keyword extraction and template answers")
	}

	recommendModule := recommend.NewModule(pipeline)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: healthChecker,
		Modules: []apphttp.Module{
			recommendModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: engine}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initCatalogRepository wires the merchant/discount catalog backend per
// CatalogConfig.GetCatalogBackend(): "postgres" runs migrations and connects
// a pool, "remote" talks to the discount-map HTTP collaborator, and
// anything else (including the empty default) serves the in-memory fixture
// so the API is runnable with zero external dependencies.
func initCatalogRepository(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Repository, apphttp.HealthChecker, func()) {
	switch cfg.GetCatalogBackend() {
	case "remote":
		log.Info("catalog backend: remote discount catalog", "url", cfg.GetDiscountAPIURL())
		remote := repository.NewRemote(cfg.GetDiscountAPIURL(), cfg.GetDiscountAPIKey(), log)
		return remote, noopHealth{}, nil
	case "postgres":
		// falls through to the migration/pool path below
	default:
		log.Info("catalog backend: in-memory fixture")
		return repository.NewMemory(), noopHealth{}, nil
	}

	if err := withRetry(ctx, log, "catalog migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run catalog migrations", "error", err)
		panic("failed to run catalog migrations: " + err.Error())
	}
	log.Info("catalog migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to catalog database", "error", err)
		panic("failed to connect to catalog database: " + err.Error())
	}
	log.Info("catalog database connection established")

	return repository.NewPostgres(pool), db.NewPoolHealth(pool), func() { pool.Close() }
}

// initEmbeddingScorer wires the optional semantic-blend scorer (§4.7) when
// an embedding backend URL is configured; returns nil otherwise so the
// retrieval builder falls back to its pure lexical scorer. When Qdrant is
// also configured, the ANN-backed scorer takes precedence over the plain
// cosine one since it reuses a pre-indexed collection instead of embedding
// both sides of every comparison locally.
func initEmbeddingScorer(cfg *config.Config) retrieval.EmbeddingScorer {
	if cfg.GetEmbeddingAPIURL() == "" {
		return nil
	}
	embedClient := embeddings.NewClient(embeddings.Config{
		BaseURL: cfg.GetEmbeddingAPIURL(),
		APIKey:  cfg.GetEmbeddingAPIKey(),
	})

	if cfg.IsQdrantEnabled() {
		qdrantClient := qdrant.NewClient(qdrant.Config{
			BaseURL:    cfg.GetQdrantURL(),
			APIKey:     cfg.GetQdrantAPIKey(),
			Collection: cfg.GetQdrantCollection(),
		})
		return retrieval.NewQdrantScorer(embedClient, qdrantClient)
	}

	return retrieval.NewEmbeddingClientScorer(embedClient)
}

// wireLLMCollaborators attaches the keyword extractor and answer generator
// when Moonshot credentials are present. A construction failure degrades to
// the rule-based fallbacks rather than failing startup, matching the
// pipeline's own degrade-don't-fail contract for these optional stages.
func wireLLMCollaborators(cfg *config.Config, log *logger.Logger, pipeline *orchestrator.Pipeline) {
	extractor, err := llm.NewKeywordExtractor(cfg.GetMoonshotAPIKey(), cfg.GetMoonshotBaseURL(), cfg.GetMoonshotModel())
	if err != nil {
		log.Error("failed to initialize keyword extractor; falling back to rule-based extraction", "error", err)
	} else {
		pipeline.WithKeywordExtractor(extractor)
	}

	answerer, err := llm.NewAnswerGenerator(cfg.GetMoonshotAPIKey(), cfg.GetMoonshotBaseURL(), cfg.GetMoonshotModel())
	if err != nil {
		log.Error("failed to initialize answer generator; falling back to template answers", "error", err)
	} else {
		pipeline.WithAnswerGenerator(answerer)
	}

	log.Info("llm collaborators initialized", "model", cfg.GetMoonshotModel())
}

type noopHealth struct{}

func (noopHealth) Ping(_ context.Context) error { return nil }

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
