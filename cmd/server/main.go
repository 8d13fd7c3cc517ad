package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/example/qrmenu/internal/config"
	"github.com/example/qrmenu/internal/database"
	"github.com/example/qrmenu/internal/routes"
	"github.com/example/qrmenu/internal/store"
	"github.com/example/qrmenu/internal/theme"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	zlog, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()

	remote := store.NewRemoteStore(db)

	// The service degrades to remote-only when the cache is unreachable.
	var cache store.LocalCache
	if redisCache, err := store.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		zlog.Warn("local cache unavailable, running remote-only", zap.Error(err))
	} else {
		cache = redisCache
	}

	stores := store.NewManager(remote, cache, zlog)
	themes := theme.NewRegistry(zlog)
	stores.OnStoreCreated(func(ds *store.DataStore) {
		slug := ds.Slug()
		ds.OnChange(func(snap store.Snapshot) {
			if snap.Business != nil {
				themes.Apply(slug, snap.Business.ThemeSettings)
			}
		})
	})

	app := fiber.New(fiber.Config{
		AppName: "QR Menu Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, stores, themes, remote, cfg)

	zlog.Info("starting server", zap.String("port", cfg.AppPort))
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		zlog.Fatal("fiber listen failed", zap.Error(err))
	}
}
