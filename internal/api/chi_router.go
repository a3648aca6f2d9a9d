// NextGame - Game Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nextgame

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/nextgame/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	staticDir     string
}

// NewRouter creates a router. staticDir, when non-empty, is served at "/".
func NewRouter(handler *Handler, mw *ChiMiddleware, staticDir string) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		staticDir:     staticDir,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(router.chiMiddleware.RealIP())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// promhttp negotiates its own compression
	r.With(router.chiMiddleware.RateLimitHealth()).Handle("/metrics", promhttp.Handler())

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		router.useAPIStack(r)

		r.With(router.chiMiddleware.RateLimitSearch()).Get("/games/search", router.handler.SearchGames)
		r.With(router.chiMiddleware.RateLimit()).Get("/games/{appid}/similar", router.handler.SimilarGames)
		r.With(router.chiMiddleware.RateLimitRecommend()).Get("/recommend", router.handler.Recommend)
	})

	// ========================
	// Legacy frontend routes
	// ========================
	r.Group(func(r chi.Router) {
		router.useAPIStack(r)

		search := router.chiMiddleware.RateLimitSearch()
		recommend := router.chiMiddleware.RateLimitRecommend()
		for _, path := range []string{"/search", "/search/"} {
			r.With(search).Get(path, router.handler.LegacySearch)
		}
		for _, path := range []string{"/recommend", "/recommend/"} {
			r.With(recommend).Get(path, router.handler.LegacyRecommend)
		}
	})

	if router.staticDir != "" {
		r.Handle("/*", staticFiles(router.staticDir))
	}

	return r
}

// useAPIStack installs the middleware shared by every data route.
func (router *Router) useAPIStack(r chi.Router) {
	r.Use(APISecurityHeaders())
	r.Use(chiMiddleware(middleware.PrometheusMetrics))
	r.Use(chiMiddleware(middleware.AccessLog))
	r.Use(chiMiddleware(middleware.Compression))
}

// staticFiles serves the frontend build with a short cache lifetime.
func staticFiles(dir string) http.Handler {
	fs := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		fs.ServeHTTP(w, r)
	})
}
