package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/meur/raidmap/internal/api"
	"github.com/meur/raidmap/internal/auth"
	"github.com/meur/raidmap/internal/config"
	"github.com/meur/raidmap/internal/logging"
	"github.com/meur/raidmap/internal/repository"
	"github.com/meur/raidmap/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

// run serves until a signal arrives or the listener fails. Deferred
// cleanup, including closing the store, runs before it returns.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Flags override config
	port := flag.String("port", cfg.Server.Port, "Server port")
	dbPath := flag.String("db", cfg.Storage.Path, "Data directory, or database file for the sqlite backend")
	backend := flag.String("backend", cfg.Storage.Backend, "Storage backend: file, sqlite or badger")
	flag.Parse()
	cfg.Server.Port = *port
	cfg.Storage.Path = *dbPath
	cfg.Storage.Backend = *backend

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	// Initialize storage
	b, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("initialize %s storage: %w", cfg.Storage.Backend, err)
	}
	store := storage.NewStore(b)
	defer store.Close()

	policy, err := repository.ParseDeletePolicy(cfg.Storage.DeleteMissing)
	if err != nil {
		return fmt.Errorf("invalid delete policy: %w", err)
	}
	repo := repository.New(store, repository.WithDeletePolicy(policy))

	srv := api.New(repo, auth.NewGate(cfg.Auth.AdminPassword), api.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		LoginRateLimit: cfg.Auth.LoginRateLimit,
	})

	// Serve frontend static files (for production deployment)
	if cfg.Server.StaticDir != "" {
		FileServer(srv.Router(), "/", http.Dir(cfg.Server.StaticDir))
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", httpServer.Addr).
			Str("backend", cfg.Storage.Backend).
			Str("path", cfg.Storage.Path).
			Msg("RaidMap API starting")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	logging.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	return nil
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
