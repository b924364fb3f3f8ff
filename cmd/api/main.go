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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/abrham-cyper/socket/cmd/api/router/v1"
	"github.com/abrham-cyper/socket/internal/config"
	cacheAdapter "github.com/abrham-cyper/socket/internal/infrastructure/cache/adapter"
	cacheport "github.com/abrham-cyper/socket/internal/infrastructure/cache/port"
	"github.com/abrham-cyper/socket/internal/infrastructure/database"
	queueAdapter "github.com/abrham-cyper/socket/internal/infrastructure/queue/adapter"
	qport "github.com/abrham-cyper/socket/internal/infrastructure/queue/port"
	"github.com/abrham-cyper/socket/internal/infrastructure/realtime"
	"github.com/abrham-cyper/socket/internal/pkg/chat/application/task"
	repoAdapter "github.com/abrham-cyper/socket/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "github.com/abrham-cyper/socket/internal/pkg/chat/presentation/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not loaded", "err", err)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Error("connect database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	var cache cacheport.Cache
	var queue qport.Client
	if cfg.RedisURL != "" {
		redisCache, err := cacheAdapter.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Error("connect redis", "err", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		cache = redisCache

		client, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
		if err != nil {
			log.Error("asynq client", "err", err)
			os.Exit(1)
		}
		defer client.Close()
		queue = client

		worker, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.Concurrency, log)
		if err != nil {
			log.Error("asynq server", "err", err)
			os.Exit(1)
		}
		task.RegisterNotifyOfflineTask(worker, log)
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Error("worker stopped", "err", err)
			}
		}()
	} else {
		log.Info("REDIS_URL not set, running without cache and notification queue")
	}

	registry := realtime.NewRegistry()
	defer registry.Close()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, httpHandler.Deps{
		Repo:     repoAdapter.NewPgChatRepository(pool),
		Cache:    cache,
		Queue:    queue,
		Realtime: registry,
		Log:      log,
		CacheTTL: cfg.CacheTTL,
	})

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
