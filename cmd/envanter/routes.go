package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	importsave "envanter/http-server/import/save"
	gettemplate "envanter/http-server/template/get"
	"envanter/internal/config"
	"envanter/internal/middleware/auth"
	"envanter/internal/service/importer"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func routes(cfg config.Config, log *slog.Logger, db pinger, templates importer.TemplateProvider, importService *importer.Service) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", healthz(db))
	router.Handle("/metrics", promhttp.Handler())

	apiRouter := chi.NewRouter()
	apiRouter.Use(auth.BasicAuth(cfg.Auth))

	apiRouter.Get("/categories/{categoryID}/templates", gettemplate.GetFieldTemplates(log, templates))
	apiRouter.Post("/categories/{categoryID}/import",
		importsave.ImportInventory(log, importService, cfg.Import.MaxUploadBytes, cfg.Import.Timeout))

	router.Mount("/api", apiRouter)

	return router
}

func healthz(db pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Write([]byte("ok"))
	}
}
