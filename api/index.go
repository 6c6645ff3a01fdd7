package handler

import (
	"context"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/wadjakorntonsri/interne/pkg/app"
	"github.com/wadjakorntonsri/interne/pkg/config"
	"github.com/wadjakorntonsri/interne/pkg/logger"
)

var mux http.Handler

func init() {
	_ = logger.Init("info", os.Getenv("APP_ENV"))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := logger.Init(cfg.LogLevel, cfg.AppEnv); err != nil {
		logger.Fatal("Failed to init logger", zap.Error(err))
	}

	// On Vercel a local SQLite file is ephemeral; point DATABASE_URL at Turso.
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		logger.Fatal("Failed to start", zap.Error(err))
	}
	mux = a.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
