package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/tclens/tclens-server/internal/common"
	"github.com/tclens/tclens-server/internal/extract"
	"github.com/tclens/tclens-server/internal/llm"
	"github.com/tclens/tclens-server/internal/llm/gemini"
	"github.com/tclens/tclens-server/internal/llm/openai"
	"github.com/tclens/tclens-server/internal/pipeline"
	"github.com/tclens/tclens-server/internal/quota"
	"github.com/tclens/tclens-server/internal/server"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	cfg := common.LoadConfig()
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Quota store, selected by DSN
	store, err := openStore(ctx, cfg, slogger)
	if err != nil {
		log.Fatalf("opening quota store: %v", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		log.Fatalf("quota store health failed: %v", err)
	}
	log.Infow("quota store health OK", "dsn_set", cfg.Database.DSN != "")

	// Upstream provider
	provider, err := buildProvider(cfg, slogger)
	if err != nil {
		log.Fatalf("configuring provider: %v", err)
	}
	log.Infow("provider configured", "provider", provider.Name())

	requester := llm.NewRequester(provider, slogger)
	pipe := pipeline.New(extract.NewExtractor(slogger), requester, store, slogger)
	svc := server.NewService(cfg, pipe, requester, store, slogger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: svc.Routes(),
	}

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnf("shutdown: %v", err)
	}
	fmt.Println("stopped.")
}

// openStore picks the quota backend from the DSN: postgres:// URLs use pgx,
// a non-empty non-URL value is a SQLite path, and an empty DSN runs the
// in-memory store for storeless deployments.
func openStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (quota.Store, error) {
	dsn := cfg.Database.DSN
	switch {
	case dsn == "":
		return quota.NewMemoryStore(), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return quota.OpenPostgres(ctx, cfg.Database, logger)
	default:
		return quota.OpenSQLite(dsn, logger)
	}
}

func buildProvider(cfg *common.Config, logger *slog.Logger) (llm.Provider, error) {
	switch strings.ToLower(cfg.LLM.Provider) {
	case "openai":
		return openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger), nil
	case "gemini":
		return gemini.NewClient(gemini.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (want openai or gemini)", cfg.LLM.Provider)
	}
}
