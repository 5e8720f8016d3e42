// Package ioapi serves the aggregate HTTP API: the food-supply-gap-by-
// neighborhood GeoJSON endpoint. Heavy lifting happens server-side in
// PostgreSQL; the handler returns the single aggregated JSON document.
package ioapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/nycfoodgap/foodgap/internal/iodb"
	"github.com/nycfoodgap/foodgap/internal/iostorage"
	"github.com/nycfoodgap/foodgap/pkg/config"
	"github.com/nycfoodgap/foodgap/pkg/storage"
)

// StorageFactory opens a Storage for one request. The handler closes it
// on every exit path.
type StorageFactory func(ctx context.Context) (storage.Storage, error)

// Server hosts the HTTP API.
type Server struct {
	cfg        *config.Config
	newStorage StorageFactory
}

// NewServer creates a Server. A nil factory gets the default one, which
// connects a fresh operator per request and closes it when the request
// is served.
func NewServer(cfg *config.Config, factory StorageFactory) *Server {
	if factory == nil {
		factory = func(ctx context.Context) (storage.Storage, error) {
			op := iodb.NewPgxOperator()
			if err := op.Connect(ctx, &cfg.Database); err != nil {
				return nil, err
			}
			return iostorage.New(op, cfg), nil
		}
	}
	return &Server{cfg: cfg, newStorage: factory}
}

// Router builds the chi router with middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		// One configured origin; all methods and headers from it.
		AllowedOrigins:   []string{s.cfg.API.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/api/food-gaps", s.handleFoodGaps)

	return r
}

// ListenAndServe starts the HTTP server on the configured address.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.API.Host, s.cfg.API.Port)
	return http.ListenAndServe(addr, s.Router())
}
