package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gauravmindaptix26/leaado-backend/internal/config"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/http/handlers"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/http/middleware"
	"github.com/gauravmindaptix26/leaado-backend/internal/infra/storage"
)

func newRouter(cfg *config.Config, a *app) http.Handler {
	leadHandler := handlers.NewLeadHandler(a.leads, a.store, storage.UploadPolicy{
		AllowedTypes: cfg.Storage.AllowedTypes,
		MaxFileBytes: cfg.Storage.MaxFileBytes,
		MaxFiles:     cfg.Storage.MaxFiles,
	})
	authHandler := handlers.NewAuthHandler(a.signup, a.login)
	profileHandler := handlers.NewProfileHandler(a.profile)

	var db handlers.Pinger
	if a.db != nil {
		db = a.db
	}
	var broker handlers.BrokerStatus
	if a.broker != nil {
		broker = a.broker
	}
	healthHandler := handlers.NewHealthHandler(db, broker, a.pitch.BaseURL(), version)

	authenticate := middleware.Authenticate(a.tokens)
	limiter := middleware.NewRateLimiter(cfg.Auth.RateLimitRPS, cfg.Auth.RateLimitBurst)

	r := chi.NewRouter()
	if cfg.Server.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Get("/", handlers.Root)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	if a.local != nil {
		prefix := "/" + strings.Trim(cfg.Storage.PublicPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, a.local.Handler()))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.With(authenticate).Get("/dashboard", authHandler.Dashboard)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/profile", profileHandler.Get)
		r.Put("/profile", profileHandler.Update)
	})

	r.Route("/api/leads", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/", leadHandler.List)
		r.Post("/upload", leadHandler.Upload)
		r.Post("/import", leadHandler.Import)
		r.Post("/websites", leadHandler.Websites)
		r.Post("/bulk", leadHandler.Bulk)
		r.Patch("/{id}/status", leadHandler.UpdateStatus)
		r.Delete("/{id}", leadHandler.Delete)
	})

	return r
}
