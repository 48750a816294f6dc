// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/qolzam/newsroom/auth"
	authHandlers "github.com/qolzam/newsroom/auth/handlers"
	authRepository "github.com/qolzam/newsroom/auth/repository"
	authServices "github.com/qolzam/newsroom/auth/services"
	"github.com/qolzam/newsroom/internal/cache"
	"github.com/qolzam/newsroom/internal/database"
	"github.com/qolzam/newsroom/internal/database/postgres"
	"github.com/qolzam/newsroom/internal/middleware/requestid"
	"github.com/qolzam/newsroom/internal/pkg/log"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/news"
	newsHandlers "github.com/qolzam/newsroom/news/handlers"
	newsRepository "github.com/qolzam/newsroom/news/repository"
	newsServices "github.com/qolzam/newsroom/news/services"
	"github.com/qolzam/newsroom/profile"
	profileHandlers "github.com/qolzam/newsroom/profile/handlers"
	profileRepository "github.com/qolzam/newsroom/profile/repository"
	profileServices "github.com/qolzam/newsroom/profile/services"
	"github.com/qolzam/newsroom/storage/janitor"
	storageProvider "github.com/qolzam/newsroom/storage/provider"
	storageServices "github.com/qolzam/newsroom/storage/services"
)

// refSourceFunc adapts a repository listing method to the janitor's
// ReferenceSource interface.
type refSourceFunc func(ctx context.Context) ([]string, error)

func (f refSourceFunc) ListBlobRefs(ctx context.Context) ([]string, error) {
	return f(ctx)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, using environment variables")
	}

	cfg, err := platformconfig.LoadFromEnv()
	if err != nil {
		log.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	client, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		log.Error("Failed to connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := database.RunMigrations(client.DB().DB); err != nil {
		log.Error("Failed to run migrations: %v", err)
		os.Exit(1)
	}

	// --- Cache ---
	cacheService, cacheBackend := buildCache(cfg)
	if cacheBackend != nil {
		defer cacheBackend.Close()
	}

	// --- Blob storage ---
	diskProvider, err := storageProvider.NewDiskProvider(cfg.Uploads.Dir)
	if err != nil {
		log.Error("Failed to initialize blob storage: %v", err)
		os.Exit(1)
	}
	blobStore := storageServices.NewBlobStoreService(diskProvider, &cfg.Uploads)

	// --- Repositories ---
	newsRepo := newsRepository.NewPostgresRepository(client)
	profileRepo := profileRepository.NewPostgresRepository(client)
	userRepo := authRepository.NewPostgresRepository(client)

	// --- Services ---
	newsService := newsServices.NewNewsService(newsRepo, blobStore, cacheService, cfg)
	profileService := profileServices.NewProfileService(profileRepo, blobStore, cacheService, cfg)
	authService := authServices.NewAuthService(userRepo, cfg)

	// --- HTTP ---
	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: (cfg.Uploads.MaxFileSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
			}
			log.ErrorWithContext(c.Context(), "Unhandled error: %v", err)
			return c.Status(code).JSON(fiber.Map{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred",
			})
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.WebDomain,
		AllowCredentials: true,
	}))

	news.RegisterRoutes(app, &news.NewsHandlers{
		NewsHandler: newsHandlers.NewNewsHandler(newsService, cfg),
	}, cfg)
	profile.RegisterRoutes(app, &profile.ProfileHandlers{
		ProfileHandler: profileHandlers.NewProfileHandler(profileService, cfg),
	}, cfg)
	auth.RegisterRoutes(app, &auth.AuthHandlers{
		AuthHandler: authHandlers.NewAuthHandler(authService, cfg),
	}, cfg)

	app.Static(cfg.Uploads.PublicRoute, cfg.Uploads.Dir)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// --- Janitors ---
	if cfg.Janitor.Enabled {
		newsJanitor := janitor.New(diskProvider, "news", refSourceFunc(newsRepo.ListImageRefs), &cfg.Janitor)
		avatarJanitor := janitor.New(diskProvider, "avatars", refSourceFunc(profileRepo.ListAvatarRefs), &cfg.Janitor)
		go newsJanitor.Run(ctx)
		go avatarJanitor.Run(ctx)
	}

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("Listening on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Error("Server stopped: %v", err)
		os.Exit(1)
	}
}

// buildCache wires the configured cache backend. A disabled or broken
// cache degrades to no caching rather than blocking startup.
func buildCache(cfg *platformconfig.Config) (*cache.GenericCacheService, cache.Cache) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	cacheConfig := cache.DefaultCacheConfig()
	cacheConfig.Enabled = true
	cacheConfig.Backend = cache.CacheType(cfg.Cache.Backend)
	if cfg.Cache.Prefix != "" {
		cacheConfig.Prefix = cfg.Cache.Prefix
	}
	if cfg.Cache.TTL > 0 {
		cacheConfig.TTL = cfg.Cache.TTL
	}
	if cfg.Cache.Redis.Address != "" {
		cacheConfig.Redis.Address = cfg.Cache.Redis.Address
	}
	cacheConfig.Redis.Password = cfg.Cache.Redis.Password
	cacheConfig.Redis.Database = cfg.Cache.Redis.Database
	if cfg.Cache.Redis.PoolSize > 0 {
		cacheConfig.Redis.PoolSize = cfg.Cache.Redis.PoolSize
	}

	backend, err := cache.NewCache(cacheConfig)
	if err != nil {
		log.Warn("Cache unavailable, continuing without it: %v", err)
		return nil, nil
	}

	return cache.NewGenericCacheService(backend, cacheConfig), backend
}
