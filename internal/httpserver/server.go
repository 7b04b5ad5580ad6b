// internal/httpserver/server.go
//
// HTTP server wiring for the Bergle backend.
// Responsibilities:
//   - Router + middleware (request IDs, request logging, panic recovery, CORS,
//     JSON content type, timeouts for everything except event streams).
//   - Public endpoints: "/", "/health", "/metrics", "/catalog*".
//   - Game endpoints (optional auth): /game/new, /game/guess, /game/{id},
//     the reveal event stream and the map SVG.
//   - Daily Challenge endpoints (optional auth): mounted under /daily.
//   - Auth + profile/stat endpoints: /auth/*, /stats/me, /games/mine.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is
//     present; routes still run for guests.

package httpserver

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/maxbax0808/Bergle/internal/catalog"
	"github.com/maxbax0808/Bergle/internal/config"
	"github.com/maxbax0808/Bergle/internal/geo"
	"github.com/maxbax0808/Bergle/internal/i18n"
	"github.com/maxbax0808/Bergle/internal/reveal"
	"github.com/maxbax0808/Bergle/internal/store"
)

// handlerTimeout bounds every request except event streams.
const handlerTimeout = 10 * time.Second

// Server bundles router, catalog, session store, and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	cat      *catalog.Catalog
	store    store.Store
	db       *sql.DB
	prox     geo.Proximity
	tr       i18n.Translator
	sched    reveal.Scheduler
	validate *validator.Validate
	metrics  *metrics
	now      func() time.Time
	daily    *dailyServer
}

// Option customises a Server.
type Option func(*Server)

// WithScheduler replaces the wall clock driving reveal streams.
func WithScheduler(s reveal.Scheduler) Option { return func(srv *Server) { srv.sched = s } }

// WithRegistry registers metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(srv *Server) { srv.metrics = newMetrics(reg) }
}

// WithClock replaces time.Now (daily date selection, elapsed times).
func WithClock(now func() time.Time) Option { return func(srv *Server) { srv.now = now } }

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, cat *catalog.Catalog, st store.Store, db *sql.DB, opts ...Option) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		cat:      cat,
		store:    st,
		db:       db,
		prox:     geo.Proximity{MaxDistance: cfg.MaxDistance},
		tr:       i18n.New(cfg.Locale),
		sched:    reveal.WallClock,
		validate: validator.New(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = newMetrics(prometheus.NewRegistry())
	}
	registerValidators(s.validate)

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger(s.metrics))
	s.r.Use(chimw.Recoverer)
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.ClientOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.r.Use(jsonContentType)

	// event streams outlive handlerTimeout
	s.r.With(s.withOptionalAuth()).Get("/game/{id}/rows/{n}/reveal", s.handleReveal)

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(handlerTimeout))

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service":   "bergle",
				"endpoints": []string{"/health", "/catalog", "POST /game/new", "POST /game/guess", "/daily/*", "/auth/*"},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			places, bydeler := s.cat.Stats()
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "places": places, "bydeler": bydeler})
		})
		r.Handle("/metrics", s.metrics.handler())

		s.mountCatalog(r)

		// Game endpoints: OPTIONAL AUTH (guests can play)
		r.Group(func(r chi.Router) {
			r.Use(s.withOptionalAuth())
			r.Post("/game/new", s.handleNewGame)
			r.Post("/game/guess", s.handleGuess)
			r.Get("/game/{id}", s.handleGetGame)
			r.Get("/game/{id}/map.svg", s.handleMapSVG)
			s.mountDaily(r)
		})

		s.mountAuthRoutes(r)
	})

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request and feeds the request metrics.
func requestLogger(m *metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			elapsed := time.Since(start)
			m.observeRequest(r.Method, route, status, elapsed)

			log.Debug().
				Str("reqId", chimw.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("took", elapsed).
				Msg("request")
		})
	}
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// decodeAndValidate reads a JSON body into dst and checks its validate tags.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errBadJSON
	}
	if err := s.validate.Struct(dst); err != nil {
		return formatValidationError(err)
	}
	return nil
}
