package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"envanter/internal/config"
	"envanter/internal/metrics"
	"envanter/internal/service/importer"
	"envanter/internal/storage/cache"
	"envanter/internal/storage/mongo"
	"envanter/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

// store — общий контракт обоих драйверов хранилища.
type store interface {
	importer.TemplateProvider
	importer.ItemStore
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	// .env необязателен: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	ctx := context.Background()

	st, err := openStorage(ctx, cfg)
	if err != nil {
		log.Error("failed to open storage", slog.String("driver", cfg.Storage.Driver), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer st.Close()

	var templates importer.TemplateProvider = st
	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		log.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		templates = cache.NewTemplates(log, st, redisClient, cfg.Redis.TTL)
		log.Info("field template cache enabled", slog.Duration("ttl", cfg.Redis.TTL))
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	importService := importer.NewService(log, templates, st, importer.Options{
		Policy:     importer.DuplicatePolicy(cfg.Import.DuplicatePolicy),
		ErrorLimit: cfg.Import.ErrorLimit,
		Metrics:    m,
	})

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, st, templates, importService),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.Import.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Import.Timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", slog.String("error", err.Error()))
	}

	log.Info("server stopped")
}

func openStorage(ctx context.Context, cfg *config.Config) (store, error) {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.Storage.Driver {
	case config.DriverMongo:
		st, err := mongo.New(initCtx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := st.EnsureIndexes(initCtx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	default:
		st, err := mysql.New(cfg.MySQL)
		if err != nil {
			return nil, err
		}
		if err := st.EnsureSchema(initCtx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil
	}
}

type dualHandler struct {
	coreHandler  slog.Handler
	errorHandler slog.Handler
}

func (h *dualHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.coreHandler.Enabled(ctx, lvl) || h.errorHandler.Enabled(ctx, lvl)
}

func (h *dualHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.coreHandler.Enabled(ctx, r.Level) {
		if err := h.coreHandler.Handle(ctx, r); err != nil {
			return err
		}
	}

	// ошибки дублируются в файл; сбой записи в файл не мешает основному выводу
	if r.Level >= slog.LevelError && h.errorHandler.Enabled(ctx, r.Level) {
		_ = h.errorHandler.Handle(ctx, r.Clone())
	}

	return nil
}

func (h *dualHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithAttrs(attrs),
		errorHandler: h.errorHandler.WithAttrs(attrs),
	}
}

func (h *dualHandler) WithGroup(name string) slog.Handler {
	return &dualHandler{
		coreHandler:  h.coreHandler.WithGroup(name),
		errorHandler: h.errorHandler.WithGroup(name),
	}
}

func setupLogger(env string) *slog.Logger {
	level := slog.LevelDebug
	if env == envProd {
		level = slog.LevelInfo
	}

	var coreHandler slog.Handler
	switch env {
	case envDev:
		coreHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	default:
		coreHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	// в local ошибки только в stdout
	if env == envLocal {
		return slog.New(coreHandler)
	}

	errorFile, err := os.OpenFile("errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		slog.Warn("Cannot open error log file", "error", err)
		return slog.New(coreHandler)
	}

	errorHandler := slog.NewTextHandler(errorFile, &slog.HandlerOptions{Level: slog.LevelError})

	return slog.New(&dualHandler{
		coreHandler:  coreHandler,
		errorHandler: errorHandler,
	})
}
