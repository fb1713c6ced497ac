package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meur/raidmap/internal/auth"
	"github.com/meur/raidmap/internal/logging"
	"github.com/meur/raidmap/internal/models"
	"github.com/meur/raidmap/internal/repository"
)

// Options tunes the HTTP surface
type Options struct {
	CORSOrigins    []string
	LoginRateLimit int // login attempts per minute per IP, 0 disables the limit
}

// Server holds the HTTP server dependencies
type Server struct {
	repo   *repository.Repository
	gate   *auth.Gate
	opts   Options
	router chi.Router
}

// New creates a new API server
func New(repo *repository.Repository, gate *auth.Gate, opts Options) *Server {
	s := &Server{
		repo:   repo,
		gate:   gate,
		opts:   opts,
		router: chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the chi router so callers can mount extra routes
func (s *Server) Router() chi.Router {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RealIP)
	s.router.Use(requestID)
	s.router.Use(accessLog)
	s.router.Use(middleware.Recoverer)
	s.router.Use(instrument)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		// Auth
		r.With(s.loginLimiter()).Post("/auth/login", s.handleLogin)

		// Catalog and public views
		r.Get("/maps", s.handleGetMaps)
		r.Get("/stats", s.handleGetStats)

		// Reads: map-scoped reads are public, full listings need admin
		r.Get("/markers", s.handleGetMarkers)
		r.Get("/keys", s.handleGetKeys)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(s.gate.RequireAdmin)

			r.Post("/markers", s.handleCreateMarker)
			r.Patch("/markers", s.handleUpdateMarker)
			r.Delete("/markers", s.handleDeleteMarker)
			r.Get("/markers/grouped", s.handleGetGroupedMarkers)

			r.Post("/keys", s.handleCreateKey)
			r.Patch("/keys", s.handleUpdateKey)
			r.Delete("/keys", s.handleDeleteKey)

			r.Get("/debug/markers", s.handleDebugMarkers)
		})
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	s.router.Handle("/metrics", promhttp.Handler())
}

func (s *Server) loginLimiter() func(http.Handler) http.Handler {
	if s.opts.LoginRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		s.opts.LoginRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, http.StatusTooManyRequests, "Too many login attempts")
		}),
	)
}

// isAdmin reports whether the request carries the admin credential
func (s *Server) isAdmin(r *http.Request) bool {
	return s.gate.Validate(r.Header.Get("Authorization"))
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondErr maps a repository error onto a status code
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		respondError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, models.ErrStorageUnavailable):
		respondError(w, http.StatusServiceUnavailable, "Storage unavailable")
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("unhandled error")
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
