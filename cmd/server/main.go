package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	redisv9 "github.com/redis/go-redis/v9"

	"techlog_backend/internal/app/di"
	"techlog_backend/internal/app/router"
	authadapters "techlog_backend/internal/feature/auth/adapters"
	authhandler "techlog_backend/internal/feature/auth/transport/handler"
	authusecase "techlog_backend/internal/feature/auth/usecase"
	postadapters "techlog_backend/internal/feature/posts/adapters"
	posthandler "techlog_backend/internal/feature/posts/transport/handler"
	postusecase "techlog_backend/internal/feature/posts/usecase"
	infradb "techlog_backend/internal/platform/db"
	"techlog_backend/internal/platform/logger"
	"techlog_backend/internal/platform/metrics"
	"techlog_backend/internal/platform/ratelimit"
	infraredis "techlog_backend/internal/platform/redis"
	"techlog_backend/internal/platform/session"
	"techlog_backend/internal/platform/sessiontoken"
)

func main() {
	logger.SetupDefault(os.Stdout)

	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable. Falling back to MySQL sessions.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close Redis client", "error", err)
			}
		}()
	}

	// セッショントークンの署名鍵チェック（開発中の注意喚起）
	secret := os.Getenv("SESSION_TOKEN_SECRET")
	if secret == "" {
		slog.Warn("SESSION_TOKEN_SECRET is not set. Set a strong secret in production.")
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	postRepo := postadapters.NewPostMySQL(db)
	sessionRepo := di.NewSessionRepository(rdb, db)

	// 期限切れセッションの掃除（Redisの場合はTTL任せでno-op）
	if n, err := sessionRepo.DeleteExpired(context.Background()); err != nil {
		slog.Warn("failed to cleanup expired sessions", "error", err)
	} else if n > 0 {
		slog.Info("cleaned up expired sessions", "count", n)
	}

	// Usecase
	tokenGen := sessiontoken.NewGenerator(secret, 14*24*time.Hour)
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, tokenGen)
	postUC := postusecase.NewPostUsecase(postRepo, userRepo)

	// Metrics
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	postH := posthandler.NewPostHandler(postUC, collector)

	// サインイン総当たり対策
	loginLimiter := ratelimit.NewLimiter(ratelimit.DefaultConfig())
	defer loginLimiter.Stop()

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Auth:         authH,
		Posts:        postH,
		SessionMW:    session.CurrentUser(tokenGen, sessionRepo, userRepo),
		LoginLimiter: loginLimiter,
		Metrics:      collector,
		Registry:     registry,
	})

	if err := r.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
