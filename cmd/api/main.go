package main

import (
	"context"
	"log"
	"time"

	"necx-chat/config"
	"necx-chat/internal/handler"
	"necx-chat/internal/ratelimit"
	"necx-chat/internal/redis"
	"necx-chat/internal/repository"
	"necx-chat/internal/server"
	"necx-chat/internal/services"
	"necx-chat/pkg/database"
	"necx-chat/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	l := logger.New(cfg.AppEnv)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Connect to the configured store (migrations / indexes applied on open)
	store, err := database.Open(ctx, cfg)
	if err != nil {
		l.Logger.Fatal("Failed to open store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			l.Error("Failed to close store", zap.Error(err))
		}
	}()
	l.Info("Connected to store", zap.String("driver", store.Driver))

	var users repository.UserRepository = store.Users
	var limiter ratelimit.Limiter

	if cfg.RedisEnabled {
		client, err := redis.NewClient(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			l.Logger.Fatal("Failed to connect to redis", zap.String("addr", cfg.RedisAddr()), zap.Error(err))
		}
		defer client.Close()

		users = redis.NewCachedUserRepository(users, client, redis.DefaultCacheConfig(), l)
		limiter = redis.NewRateLimiter(client, redis.RateLimitConfig{
			Limit:  cfg.RateLimitMax,
			Window: cfg.RateLimitWindow,
		})
		l.Info("Redis enabled for user cache and rate limiting", zap.String("addr", cfg.RedisAddr()))
	} else {
		local := ratelimit.NewLocalLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, ratelimit.CleanupOpts{})
		defer local.Close()
		limiter = local
	}

	userService := services.NewUserService(users)
	messageService := services.NewMessageService(store.Messages, users)

	existing, err := userService.EnsureDefaultUsers(ctx)
	if err != nil {
		l.Logger.Fatal("Failed to seed default users", zap.Error(err))
	}
	if existing == 0 {
		l.Info("Seeded default users")
	} else {
		l.Info("Users already present, skipping seed", zap.Int64("count", existing))
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		System:  handler.NewSystemHandler(store, store.Driver, cfg.AppEnv, l),
		User:    handler.NewUserHandler(userService),
		Message: handler.NewMessageHandler(messageService),
	}, limiter)

	l.Info("Server configured",
		zap.String("port", cfg.AppPort),
		zap.String("env", cfg.AppEnv),
		zap.Strings("cors_origins", cfg.CORSOrigins()),
	)
	if err := srv.Start(); err != nil {
		l.Error("Server stopped with error", zap.Error(err))
	}
}
