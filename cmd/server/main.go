package main

import (
	"context"

	"github.com/okoval/minidate/internal/app"
	"github.com/okoval/minidate/internal/auth"
	"github.com/okoval/minidate/internal/cache"
	"github.com/okoval/minidate/internal/config"
	"github.com/okoval/minidate/internal/db"
	"github.com/okoval/minidate/internal/logger"
	"github.com/okoval/minidate/internal/server"
	"github.com/okoval/minidate/internal/service/chat"
	"github.com/okoval/minidate/internal/service/match"
	"github.com/okoval/minidate/internal/service/profile"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	if cfg.Telegram.BotToken == "" {
		log.Warn("BOT_TOKEN is empty, every authenticated request will be rejected")
	}

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)
	validator := auth.NewValidator(cfg.Telegram.BotToken, cfg.Telegram.AuthTTL)

	registrars := []server.Registrar{
		profile.NewRegistrar(appCtx, validator),
		match.NewRegistrar(appCtx, validator),
		chat.NewRegistrar(appCtx, validator),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedDemoData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, appCtx, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
