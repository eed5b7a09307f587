// Package http exposes the forecast read API.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"salecast/internal/forecast"
	"salecast/internal/log"
)

type Server struct {
	http.Server
	query  *forecast.QueryService
	logger *log.Logger
}

func NewServer(addr string, query *forecast.QueryService, logger *log.Logger) *Server {
	s := &Server{
		query:  query,
		logger: logger.WithComponent(log.ComponentHTTP),
	}

	s.Addr = addr
	s.Handler = s.routes()
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 10 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16 // 64KB

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", s.handleRoot)
	r.Get("/api/forecasts", s.handleListForecasts)

	return r
}
