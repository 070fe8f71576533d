package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/sxcben/unit-repartition-project/internal/config"
	"github.com/sxcben/unit-repartition-project/internal/engine"
)

// Notifier publishes noteworthy session events to an external channel.
// Implementations must be safe for concurrent use and must never block
// request handling for long.
type Notifier interface {
	SwapSettled(settled *engine.Settlement)
}

type Server struct {
	router   *mux.Router
	engine   *engine.Engine
	sessions *sessionManager
	notifier Notifier
	logger   *zap.Logger
	server   *http.Server
}

func New(cfg *config.Config, eng *engine.Engine, notifier Notifier, logger *zap.Logger) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		engine:   eng,
		sessions: newSessionManager(cfg.SessionSecret),
		notifier: notifier,
		logger:   logger,
	}

	s.setupRoutes()

	// Setup CORS for the read-only JSON endpoints - allow all origins.
	// Note: When AllowedOrigins is "*", AllowCredentials must be false
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
	}
	s.server = &http.Server{
		Addr:    cfg.Addr(),
		Handler: cors.New(corsOptions).Handler(s.router),
	}

	return s
}

func (s *Server) setupRoutes() {
	// Browser pages and form posts
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
	s.router.HandleFunc("/choose", s.handleChoose).Methods("GET")
	s.router.HandleFunc("/set_state", s.handleSetState).Methods("POST")
	s.router.HandleFunc("/propose_swap", s.handleProposeSwap).Methods("POST")
	s.router.HandleFunc("/respond_swap", s.handleRespondSwap).Methods("POST")

	// Read-only JSON endpoints
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleAPIState).Methods("GET")
	api.HandleFunc("/offers", s.handleAPIOffers).Methods("GET")
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("web server listening", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
