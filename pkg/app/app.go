// Package app wires configuration, storage and services into a runnable
// HTTP handler.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/interne/pkg/adapters/handler"
	"github.com/wadjakorntonsri/interne/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/interne/pkg/adapters/session"
	"github.com/wadjakorntonsri/interne/pkg/config"
	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/core/services"
	"github.com/wadjakorntonsri/interne/pkg/logger"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type App struct {
	Repo     *sqlite.SQLiteRepository
	Services handler.Services
	Handler  http.Handler

	redis *redis.Client
}

// New opens the database, picks a token revoker and builds the router.
// An empty RedisURL keeps revocations in memory.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	clk := clock.System{}

	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL, sqlite.WithClock(clk))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &App{Repo: repo}

	var revoker ports.TokenRevoker
	if cfg.RedisURL != "" {
		client, err := session.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			repo.Close()
			return nil, err
		}
		a.redis = client
		revoker = session.NewRedisRevoker(client, clk)
		logger.Info("token revocation backed by redis")
	} else {
		revoker = session.NewMemoryRevoker(clk)
		logger.Info("token revocation kept in memory")
	}

	a.Services = NewServices(repo, clk)
	tokens := session.NewTokens(cfg.JWTSecret, cfg.SessionTTL, clk)
	a.Handler = handler.NewRouter(cfg, a.Services, tokens, revoker)
	return a, nil
}

// NewServices builds the service layer on top of a repository.
func NewServices(repo ports.Repository, clk clock.Clock) handler.Services {
	return handler.Services{
		Entries:     services.NewEntryService(repo, clk),
		Collections: services.NewCollectionService(repo, clk),
		Tags:        services.NewTagService(repo),
		Users:       services.NewUserService(repo, clk),
		Exports:     services.NewExportService(repo, clk),
	}
}

func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn("close redis", zap.Error(err))
		}
	}
	return a.Repo.Close()
}
