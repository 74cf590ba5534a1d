package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/aliskandarani/raai/internal/api"
	"github.com/aliskandarani/raai/internal/cache"
	"github.com/aliskandarani/raai/internal/config"
	"github.com/aliskandarani/raai/internal/db"
	"github.com/aliskandarani/raai/internal/logger"
	"github.com/aliskandarani/raai/internal/middleware"
	"github.com/aliskandarani/raai/internal/utils"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatalw("server error", "err", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	sqlDB, err := sql.Open("sqlite3", cfg.Database.Path+"?_busy_timeout=5000")
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()

	if err := db.RunMigrations(sqlDB, cfg.Database.MigrationsDir); err != nil {
		return err
	}
	store, err := db.NewSQLiteStore(sqlDB, log)
	if err != nil {
		return err
	}

	surveyCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	defer func() { _ = surveyCache.Close() }()
	if surveyCache != nil {
		log.Infow("survey cache enabled", "addr", cfg.Redis.Addr)
	}

	auth := middleware.NewAuth(cfg.JWT.Secret)
	router := api.NewRouter(store, auth.SignToken, cfg.JWT.Expiration, log, surveyCache)
	if err := router.AuthService().EnsureAdmin(cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return err
	}

	commit := os.Getenv("RAAI_COMMIT")
	buildTime := os.Getenv("RAAI_BUILD_TIME")

	r := mux.NewRouter()
	router.Register(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(req.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Raai API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	r.HandleFunc("/version", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	handler := middleware.CORS(
		middleware.SecureHeaders(
			middleware.NoStore(
				middleware.LocaleMiddleware(
					auth.WithAuth(r)))))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}
	log.Infow("listening", "addr", srv.Addr)
	return srv.ListenAndServe()
}
