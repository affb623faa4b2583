package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/kartoza/mof-predictor/internal/api"
	"github.com/kartoza/mof-predictor/internal/config"
	"github.com/kartoza/mof-predictor/internal/history"
	"github.com/kartoza/mof-predictor/internal/predictor"
	"github.com/kartoza/mof-predictor/internal/upload"
)

// Server holds all the components for the web application
type Server struct {
	cfg          config.Config
	httpServer   *http.Server
	router       *mux.Router
	uploadStore  *upload.Store
	historyStore *history.Store
	service      *predictor.Service
}

// New creates a new Server with all components initialized
func New(cfg config.Config) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		router: mux.NewRouter(),
	}

	uploadStore, err := upload.NewStore(cfg.TempDir)
	if err != nil {
		return nil, err
	}
	s.uploadStore = uploadStore

	// Prediction history is optional
	if cfg.HistoryDB != "" {
		historyStore, err := history.Open(cfg.HistoryDB)
		if err != nil {
			log.Printf("Warning: prediction history not available: %v", err)
		} else {
			s.historyStore = historyStore
		}
	}

	var recorder predictor.Recorder
	if s.historyStore != nil {
		recorder = s.historyStore
	}
	s.service = predictor.NewMockService(s.uploadStore, recorder)

	s.setupRoutes()

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	var reader api.HistoryReader
	if s.historyStore != nil {
		reader = s.historyStore
	}

	apiHandler := api.NewHandler(s.service, reader, s.cfg)
	apiHandler.RegisterRoutes(s.router)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, `{"error":"Not Found"}`)
	})
}

// Handler returns the router wrapped in the CORS and logging middleware
func (s *Server) Handler() http.Handler {
	return api.LoggingMiddleware(api.CORSMiddleware(s.cfg.CORSOrigins)(s.router))
}

// Start begins listening for HTTP connections
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server listening on http://%s", s.cfg.Addr())
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server, then closes the stores
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	// Close stores
	if s.historyStore != nil {
		if cerr := s.historyStore.Close(); cerr != nil {
			log.Printf("Error closing history database: %v", cerr)
		}
	}

	return err
}
