// Entry point for the cardmark extraction service: chi router, SQLite-backed
// file store, retention janitor, optional MCP transport over stdio.
package main

import (
	"context"
	"crypto/sha256"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/debatetools/cardmark/store"
	"github.com/debatetools/cardmark/verbatim"
	"github.com/debatetools/cardmark/web"
)

func main() {
	secretInput := os.Getenv("SIGNING_SECRET")
	if secretInput == "" {
		slog.Error("SIGNING_SECRET is required")
		os.Exit(1)
	}
	// Derive a 32-byte HMAC secret via SHA-256 (satisfies signurl.MinSecretLen).
	secretHash := sha256.Sum256([]byte(secretInput))
	secret := secretHash[:]

	// Logging.
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Configuration: YAML file when present, defaults otherwise.
	var cfg *web.Config
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		cfg, err = web.LoadConfig(path)
		if err != nil {
			slog.Error("load config", "path", path, "error", err)
			os.Exit(1)
		}
	} else {
		cfg = web.DefaultConfig()
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// File store + registry.
	st, err := store.Open(cfg.DataDir, cfg.DBPath, logger)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Retention janitor.
	go store.NewJanitor(st, cfg.SweepInterval(), logger).Run(ctx)

	// Optional MCP over stdio: expose the extraction tools and exit when
	// the session ends. HTTP is not served in this mode.
	if env("MCP_TRANSPORT", "") == "stdio" {
		ex := verbatim.New(verbatim.Config{
			StructuralStyles:     cfg.StructuralStyles,
			KeepCitationAfterTag: cfg.KeepCitationAfterTag,
			Logger:               logger,
		})
		srv := mcp.NewServer(&mcp.Implementation{Name: "cardmark", Version: "1.0.0"}, nil)
		ex.RegisterMCP(srv)
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("mcp server", "error", err)
			os.Exit(1)
		}
		return
	}

	// HTTP service.
	svc := web.NewService(st, cfg, secret, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	svc.RegisterHTTP(r)

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown", "error", err)
		}
	}()

	slog.Info("cardmark listening", "addr", cfg.Listen, "data_dir", cfg.DataDir)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server", "error", err)
		os.Exit(1)
	}
	slog.Info("cardmark stopped")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
