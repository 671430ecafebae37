package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/advisor"
	"github.com/aretw0/advisor/internal/logging"
	"github.com/aretw0/advisor/pkg/domain"
	"github.com/aretw0/advisor/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// Engine defines the quiz operations the HTTP API exposes.
// *advisor.Engine satisfies it.
type Engine interface {
	Brands() []domain.BrandInfo
	Start(ctx context.Context, sessionID string, brand domain.Brand) (*domain.State, error)
	NewSession(sessionID string) *domain.State
	SelectBrand(ctx context.Context, state *domain.State, brand domain.Brand) (*domain.State, error)
	Render(ctx context.Context, state *domain.State) (*domain.View, error)
	Advance(ctx context.Context, state *domain.State, target int) (*domain.State, error)
	Choose(ctx context.Context, state *domain.State, index int) (*domain.State, error)
	Back(ctx context.Context, state *domain.State) (*domain.State, error)
	Restart(ctx context.Context, state *domain.State) (*domain.State, error)
	Reset(ctx context.Context, state *domain.State) (*domain.State, error)
	Products(ctx context.Context, state *domain.State) ([]domain.Product, error)
	Graph(brand domain.Brand) (*domain.NavigationGraph, error)
	Validate(brand domain.Brand) (*advisor.Report, error)
	Mermaid(brand domain.Brand, state *domain.State) (string, error)
	Watch(ctx context.Context) (<-chan string, error)
}

// Server serves the quiz over JSON and SSE.
type Server struct {
	Engine   Engine
	Sessions *session.Manager
	Streams  *StreamManager

	logger      *slog.Logger
	corsOrigins []string
	metrics     http.Handler
	newID       func() string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger for requests and streams.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCORSOrigins sets the allowed CORS origins. Defaults to "*".
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithIDGenerator overrides the session id generator (uuid v4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(s *Server) {
		s.newID = fn
	}
}

// NewServer creates a Server over engine and sessions.
func NewServer(engine Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:      engine,
		Sessions:    sessions,
		logger:      logging.NewNop(),
		corsOrigins: []string{"*"},
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/brands", func(r chi.Router) {
		r.Get("/", s.ListBrands)
		r.Get("/{brand}/graph", s.GetGraph)
		r.Get("/{brand}/validate", s.ValidateBrand)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/brand", s.SelectBrand)
			r.Post("/advance", s.Advance)
			r.Post("/back", s.Back)
			r.Post("/restart", s.Restart)
			r.Post("/reset", s.Reset)
			r.Get("/products", s.GetProducts)
		})
	})

	r.Get("/events", s.SubscribeEvents)
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "advisor-http",
		"version": strings.TrimSpace(advisor.Version),
	})
}

// ListBrands handles GET /brands.
func (s *Server) ListBrands(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Engine.Brands())
}

// GetGraph handles GET /brands/{brand}/graph. With ?format=mermaid it returns
// a flowchart, overlaid with the session given in ?session_id.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	brand := domain.Brand(chi.URLParam(r, "brand"))

	if r.URL.Query().Get("format") == "mermaid" {
		var state *domain.State
		if id := r.URL.Query().Get("session_id"); id != "" {
			loaded, err := s.Sessions.Load(r.Context(), id)
			if err != nil {
				s.fail(w, r, err)
				return
			}
			state = loaded
		}
		chart, err := s.Engine.Mermaid(brand, state)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(chart))
		return
	}

	g, err := s.Engine.Graph(brand)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g.Pages)
}

type validateResponse struct {
	*advisor.Report
	Valid bool `json:"valid"`
}

// ValidateBrand handles GET /brands/{brand}/validate.
func (s *Server) ValidateBrand(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.Validate(domain.Brand(chi.URLParam(r, "brand")))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Report: report, Valid: report.Valid()})
}

type createSessionRequest struct {
	Brand     domain.Brand `json:"brand"`
	SessionID string       `json:"session_id,omitempty"`
}

// CreateSession handles POST /sessions. An empty brand creates a session on
// the brand selector. A session_id that is already in use is rejected with 409.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	id := body.SessionID
	if id == "" {
		id = s.newID()
	}

	state, err := s.Sessions.Create(r.Context(), id, func(ctx context.Context) (*domain.State, error) {
		if body.Brand == "" {
			return s.Engine.NewSession(id), nil
		}
		return s.Engine.Start(ctx, id, body.Brand)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.broadcast(nil, state)
	s.respondView(w, r, http.StatusCreated, state)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.respondView(w, r, http.StatusOK, state)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := s.Sessions.Load(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.Sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type selectBrandRequest struct {
	Brand domain.Brand `json:"brand"`
}

// SelectBrand handles POST /sessions/{id}/brand.
func (s *Server) SelectBrand(w http.ResponseWriter, r *http.Request) {
	var body selectBrandRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	s.mutate(w, r, func(ctx context.Context, st *domain.State) (*domain.State, error) {
		return s.Engine.SelectBrand(ctx, st, body.Brand)
	})
}

type advanceRequest struct {
	TargetPage *int `json:"target_page,omitempty"`
	Button     *int `json:"button,omitempty"`
}

// Advance handles POST /sessions/{id}/advance with either a target page or
// a zero-based button index.
func (s *Server) Advance(w http.ResponseWriter, r *http.Request) {
	var body advanceRequest
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	switch {
	case body.TargetPage != nil && body.Button != nil:
		s.fail(w, r, fmt.Errorf("%w: target_page and button are exclusive", errBadRequest))
	case body.TargetPage != nil:
		target := *body.TargetPage
		s.mutate(w, r, func(ctx context.Context, st *domain.State) (*domain.State, error) {
			return s.Engine.Advance(ctx, st, target)
		})
	case body.Button != nil:
		index := *body.Button
		s.mutate(w, r, func(ctx context.Context, st *domain.State) (*domain.State, error) {
			return s.Engine.Choose(ctx, st, index)
		})
	default:
		s.fail(w, r, fmt.Errorf("%w: target_page or button is required", errBadRequest))
	}
}

// Back handles POST /sessions/{id}/back.
func (s *Server) Back(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.Engine.Back)
}

// Restart handles POST /sessions/{id}/restart.
func (s *Server) Restart(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.Engine.Restart)
}

// Reset handles POST /sessions/{id}/reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, s.Engine.Reset)
}

// GetProducts handles GET /sessions/{id}/products.
func (s *Server) GetProducts(w http.ResponseWriter, r *http.Request) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	products, err := s.Engine.Products(r.Context(), state)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// mutate applies op to the stored session under its lock, broadcasts the
// diff and responds with the new view.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(context.Context, *domain.State) (*domain.State, error)) {
	id := chi.URLParam(r, "id")
	var before *domain.State
	next, err := s.Sessions.Update(r.Context(), id, func(current *domain.State) (*domain.State, error) {
		before = current
		return op(r.Context(), current)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.broadcast(before, next)
	s.respondView(w, r, http.StatusOK, next)
}

func (s *Server) broadcast(before, after *domain.State) {
	diff := domain.Diff(before, after)
	if diff == nil {
		return
	}
	payload, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("diff encode failed", "error", err)
		return
	}
	s.Streams.Broadcast(after.SessionID, string(payload))
}

func (s *Server) respondView(w http.ResponseWriter, r *http.Request, status int, state *domain.State) {
	view, err := s.Engine.Render(r.Context(), state)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, status, view)
}

// SubscribeEvents handles GET /events (SSE). With ?session_id it streams the
// session's state diffs, optionally filtered by ?watch=brand,page,history.
// Without it, it streams the names of reloaded datasets.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		events, err := s.Engine.Watch(r.Context())
		if err != nil {
			s.fail(w, r, err)
			return
		}
		startStream(w, flusher)
		for {
			select {
			case <-r.Context().Done():
				return
			case brand, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: reload\ndata: %s\n\n", brand)
				flusher.Flush()
			}
		}
	}

	var watch []string
	if raw := r.URL.Query().Get("watch"); raw != "" {
		watch = strings.Split(raw, ",")
	}

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.logger.Info("SSE: subscribed", "session_id", sessionID)
	startStream(w, flusher)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !matchesWatch(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func startStream(w http.ResponseWriter, flusher http.Flusher) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
}

func matchesWatch(msg string, watch []string) bool {
	if len(watch) == 0 {
		return true
	}
	var diff domain.StateDiff
	if err := json.Unmarshal([]byte(msg), &diff); err != nil {
		return true
	}
	for _, field := range watch {
		switch strings.TrimSpace(field) {
		case "brand":
			if diff.Brand != nil {
				return true
			}
		case "page":
			if diff.CurrentPage != nil {
				return true
			}
		case "history":
			if diff.History != nil {
				return true
			}
		}
	}
	return false
}

// -- Helpers --

var errBadRequest = errors.New("bad request")

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrUnknownBrand),
		errors.Is(err, advisor.ErrButtonOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoBrand),
		errors.Is(err, domain.ErrSessionExists):
		return http.StatusConflict
	case errors.Is(err, advisor.ErrNotWatchable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Warn("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{
		"error":  err.Error(),
		"status": strconv.Itoa(status),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
