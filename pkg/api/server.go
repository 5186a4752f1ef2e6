// Package api exposes stored membuf blobs over HTTP: whole buffers, their
// descriptor tables, and individual lazily-decoded fields.
package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the blob server's router with all routes configured
func NewRouter(store BlobStore, config ServerConfig, metrics *Metrics) http.Handler {
	server := NewServer(store, config, metrics)

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(config.APIKey))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Blob operations
		r.Post("/blobs", metrics.InstrumentHandler("POST", "/api/v1/blobs", server.handleCreateBlob))
		r.Get("/blobs/{id}", metrics.InstrumentHandler("GET", "/api/v1/blobs/{id}", server.handleGetBlob))
		r.Delete("/blobs/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/blobs/{id}", server.handleDeleteBlob))

		// Lazy field access
		r.Get("/blobs/{id}/fields", metrics.InstrumentHandler("GET", "/api/v1/blobs/{id}/fields", server.handleListFields))
		r.Get("/blobs/{id}/fields/{key}", metrics.InstrumentHandler("GET", "/api/v1/blobs/{id}/fields/{key}", server.handleGetField))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(store BlobStore, config ServerConfig) error {
	metrics := NewMetrics()
	router := NewRouter(store, config, metrics)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.Printf("Starting membuf blob server on %s", addr)
	return http.ListenAndServe(addr, router)
}
