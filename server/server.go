package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/bookmarker/pkg/domain"
	"github.com/umputun/bookmarker/pkg/orchestrator"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/classifier.go -pkg mocks -skip-ensure -fmt goimports . Classifier
//go:generate moq -out mocks/bookmarks.go -pkg mocks -skip-ensure -fmt goimports . BookmarkStore
//go:generate moq -out mocks/history.go -pkg mocks -skip-ensure -fmt goimports . HistoryStore
//go:generate moq -out mocks/settings.go -pkg mocks -skip-ensure -fmt goimports . SettingsStore
//go:generate moq -out mocks/events.go -pkg mocks -skip-ensure -fmt goimports . EventSource

// throttleLimit caps concurrent api requests, event streams are not counted
const throttleLimit = 100

// Server represents HTTP server instance
type Server struct {
	Params
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Params holds server dependencies
type Params struct {
	Config     ConfigProvider
	Classifier Classifier
	Bookmarks  BookmarkStore
	History    HistoryStore
	Settings   SettingsStore
	Events     EventSource
	Metrics    http.Handler // optional, serves /metrics
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Classifier runs a classification attempt
type Classifier interface {
	Process(ctx context.Context, t orchestrator.Trigger) orchestrator.Result
}

// BookmarkStore is the bookmark tree
type BookmarkStore interface {
	Tree(ctx context.Context) (*domain.Node, error)
	Create(ctx context.Context, req domain.NodeCreate) (domain.Node, error)
	Update(ctx context.Context, id string, upd domain.NodeUpdate) (domain.Node, error)
	Remove(ctx context.Context, id string) error
}

// HistoryStore lists and clears classification history
type HistoryStore interface {
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	Clear(ctx context.Context) error
}

// SettingsStore loads and saves user settings
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, s domain.Settings) error
}

// EventSource streams notifications of a surface
type EventSource interface {
	Subscribe(surface string) (<-chan domain.Notification, func())
}

// New initializes a new server instance
func New(p Params, version string, debug bool) *Server {
	s := &Server{
		Params:  p,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.Config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler returns the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("bookmarker", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		// event streams are long-lived and must not occupy throttle slots
		api.HandleFunc("GET /events", s.eventsHandler)

		api.Group().Route(func(r *routegroup.Bundle) {
			r.Use(rest.Throttle(throttleLimit))
			s.setupAPIRoutes(r)
		})
	})

	if s.Metrics != nil {
		s.router.Handle("GET /metrics", s.Metrics)
	}
}

func (s *Server) setupAPIRoutes(r *routegroup.Bundle) {
	r.HandleFunc("GET /status", s.statusHandler)
	r.HandleFunc("POST /classify", s.classifyHandler)

	r.HandleFunc("GET /bookmarks", s.treeHandler)
	r.HandleFunc("POST /bookmarks", s.createBookmarkHandler)
	r.HandleFunc("PATCH /bookmarks/{id}", s.updateBookmarkHandler)
	r.HandleFunc("DELETE /bookmarks/{id}", s.removeBookmarkHandler)

	r.HandleFunc("GET /history", s.historyHandler)
	r.HandleFunc("DELETE /history", s.clearHistoryHandler)

	r.HandleFunc("GET /settings", s.getSettingsHandler)
	r.HandleFunc("PUT /settings", s.putSettingsHandler)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
