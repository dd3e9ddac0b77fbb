// Command server starts the job matching HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/ai/openrouter"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/ai/stub"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/cache/rediscache"
	httpserver "github.com/fairyhunter13/ai-job-matcher/internal/adapter/httpserver"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/observability"
	"github.com/fairyhunter13/ai-job-matcher/internal/adapter/repo/postgres"
	"github.com/fairyhunter13/ai-job-matcher/internal/app"
	"github.com/fairyhunter13/ai-job-matcher/internal/config"
	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
	"github.com/fairyhunter13/ai-job-matcher/internal/score"
	"github.com/fairyhunter13/ai-job-matcher/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	jobRepo := postgres.NewPostingRepo(pool)

	var cache *rediscache.Cache
	if cfg.RedisURL != "" {
		cache, err = rediscache.New(cfg.RedisURL)
		if err != nil {
			slog.Error("redis connect failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Oracle. The stub provider answers deterministically for local runs;
	// everything still works without any oracle via deterministic fallbacks.
	var oracleClient domain.OracleClient
	switch cfg.OracleProvider {
	case "stub":
		oracleClient = stub.New()
		slog.Info("oracle provider: stub")
	default:
		if cfg.OpenRouterAPIKey == "" {
			slog.Warn("OPENROUTER_API_KEY missing, running with deterministic scoring only")
		} else {
			oracleClient = openrouter.New(cfg)
			slog.Info("oracle provider: openrouter", slog.String("model", cfg.ChatModel))
		}
	}
	oracle := score.NewGateway(oracleClient, cfg.OracleMaxInflight)

	matchSvc := usecase.NewMatchService(jobRepo, matchCacheOrNil(cache),
		&score.DeterministicScorer{Oracle: oracle},
		&score.SemanticScorer{Oracle: oracle},
		&score.BonusScorer{Oracle: oracle},
		&score.Explainer{Oracle: oracle},
		cfg.MatchCacheTTL)
	triageSvc := usecase.NewTriageService(jobRepo, matchSvc, cfg.TriageTopN, cfg.TriageConcurrency)

	if cfg.SeedFile != "" {
		if err := seedPostings(ctx, jobRepo, cfg.SeedFile); err != nil {
			slog.Error("seeding postings failed", slog.Any("error", err))
		}
	}

	dbCheck, redisCheck := app.BuildReadinessChecks(pool, pingerOrNil(cache))

	srv := httpserver.NewServer(cfg, matchSvc, triageSvc, jobRepo, dbCheck, redisCheck)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}

// matchCacheOrNil avoids the classic non-nil interface holding a nil pointer.
func matchCacheOrNil(c *rediscache.Cache) domain.MatchCache {
	if c == nil {
		return nil
	}
	return c
}

func pingerOrNil(c *rediscache.Cache) app.Pinger {
	if c == nil {
		return nil
	}
	return c
}
