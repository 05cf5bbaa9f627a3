package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/scribe/internal/cache"
	"github.com/debemdeboas/scribe/internal/config"
	"github.com/debemdeboas/scribe/internal/db"
	"github.com/debemdeboas/scribe/internal/handler"
	"github.com/debemdeboas/scribe/internal/logger"
	"github.com/debemdeboas/scribe/internal/middleware"
	"github.com/debemdeboas/scribe/internal/render"
	"github.com/debemdeboas/scribe/internal/repository"
	"github.com/debemdeboas/scribe/internal/routes"
	"github.com/debemdeboas/scribe/internal/sse"
	"github.com/debemdeboas/scribe/internal/util/compression"
)

//go:embed static/* templates/*
var content embed.FS

func main() {
	envErr := godotenv.Load()

	configPath := os.Getenv(config.ConfigPathEnv)
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	bootLogger := logger.New("info", "console")
	config.SetLogger(bootLogger)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Str("path", configPath).Msg(config.ErrLoadConfig)
	}

	l := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	setLoggers(l)

	if envErr != nil {
		l.Debug().Err(envErr).Msg("No .env file loaded")
	}

	srv, cleanup, err := newServer(cfg, l)
	if err != nil {
		l.Fatal().Err(err).Msg(config.ErrInitializeStore)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := newHTTPServer(cfg, srv)

	go func() {
		l.Info().
			Str("addr", cfg.Addr()).
			Str("store", cfg.Store.Backend).
			Msg("Server listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	l.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("Error during shutdown")
	}
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l.With().Str("component", "config").Logger())
	db.SetLogger(l.With().Str("component", "db").Logger())
	repository.SetLogger(l.With().Str("component", "repository").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())
}

// newServer wires the post store, handlers and middleware described by cfg.
// The returned cleanup releases the store.
func newServer(cfg *config.Config, l zerolog.Logger) (http.Handler, func() error, error) {
	repo, cleanup, err := newPostRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	static, err := fs.Sub(content, config.StaticLocalDir)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("error opening static files: %w", err)
	}

	if _, err := cache.HashStatic(static, config.StaticUrlPath); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("error hashing static files: %w", err)
	}

	h, err := handler.NewHandler(repo, sse.NewClients(), render.NewRenderer(cfg.Render.SyntaxTheme), content, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	mux := http.NewServeMux()

	mux.HandleFunc(routes.Robots, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, config.CTypeText)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})
	mux.Handle(routes.Static, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))
	h.Register(mux)

	mws := []middleware.Middleware{
		middleware.Logging(l),
	}
	if cfg.Server.Compress {
		mws = append(mws, middleware.Compress(routes.EventsPath))
	}
	mws = append(mws, middleware.SecureHeaders, middleware.CacheHeaders)

	return middleware.Chain(mux, mws...), cleanup, nil
}

// newHTTPServer builds the server for handler. Shutdown cancels the context of
// every in-flight request so open event streams end instead of holding the
// shutdown until it times out.
func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	baseCtx, cancel := context.WithCancel(context.Background())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}
	srv.RegisterOnShutdown(cancel)
	return srv
}

// newPostRepository builds the configured post store. Neither backend outlives
// the process.
func newPostRepository(cfg *config.Config) (repository.PostRepository, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		compressor, err := compression.New(cfg.Store.Compression)
		if err != nil {
			return nil, nil, err
		}

		sqlite := db.NewSQLite(db.MemoryDSN)
		if err := sqlite.InitDB(); err != nil {
			return nil, nil, err
		}

		return repository.NewDBPostRepository(sqlite, compressor), sqlite.Close, nil
	case config.BackendMemory:
		return repository.NewMemoryPostRepository(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
