package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gateway "github.com/user7217/OSS-Engine/internal/adapters/github"
	"github.com/user7217/OSS-Engine/internal/adapters/http/api"
	"github.com/user7217/OSS-Engine/internal/adapters/llm"
	"github.com/user7217/OSS-Engine/internal/adapters/repository"
	app "github.com/user7217/OSS-Engine/internal/app"
	"github.com/user7217/OSS-Engine/internal/config"
	"github.com/user7217/OSS-Engine/pkg/logger"
)

// HTTP server timeout constants. Scoring a cold repository fans out
// into many upstream calls, so the write timeout is generous.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 120 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.GitHubToken == "" {
		log.Warn(ctx, "no github_token configured, using unauthenticated rate limits")
	}

	fetcher, err := gateway.New(
		gateway.WithToken(cfg.GitHubToken),
		gateway.WithHTTPTimeout(time.Duration(cfg.GitHubTimeoutSec)*time.Second),
		gateway.WithContributorSample(cfg.ContributorSample),
		gateway.WithPRSample(cfg.PRSample),
		gateway.WithIssueSample(cfg.IssueSample),
		gateway.WithMaxSnippets(cfg.MaxSnippets),
		gateway.WithMaxSnippetBytes(cfg.MaxSnippetBytes),
		gateway.WithSearchMax(cfg.SearchMaxRepos),
	)
	if err != nil {
		os.Stderr.WriteString("failed to create github gateway: " + err.Error() + "\n")
		return
	}

	// Resolve the LLM provider; running without one degrades the two
	// LLM-backed categories to zero instead of refusing to start.
	var scorer *llm.Scorer
	provider, err := llm.Resolve(llm.Credentials{
		GeminiAPIKey: cfg.GeminiAPIKey,
		OpenAIAPIKey: cfg.OpenAIAPIKey,
		Model:        cfg.LLMModel,
	})
	switch {
	case err == nil:
		scorer = llm.NewScorer(provider,
			llm.WithTimeout(time.Duration(cfg.LLMTimeoutSec)*time.Second))
		log.Info(ctx, "LLM provider resolved", logger.String("provider", provider.Name()))
	case errors.Is(err, llm.ErrNoProvider):
		log.Warn(ctx, "no LLM provider configured, documentation and code quality disabled")
	default:
		os.Stderr.WriteString("failed to resolve LLM provider: " + err.Error() + "\n")
		return
	}

	store := repository.NewFileStore(repository.WithPath(cfg.CachePath))

	opts := []app.Option{
		app.WithLogger(log),
		app.WithFetcher(fetcher),
		app.WithStore(store),
		app.WithBatchWorkers(cfg.BatchWorkers),
		app.WithDeepScoreLimit(cfg.DeepScoreLimit),
	}
	if scorer != nil {
		opts = append(opts, app.WithTextScorer(scorer))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}
