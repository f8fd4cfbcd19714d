// Package main API Server 入口
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raktkosh/internal/apiserver/auth"
	"raktkosh/internal/apiserver/server"
	"raktkosh/internal/config"
	"raktkosh/internal/shared/cache"
	cacheredis "raktkosh/internal/shared/cache/redis"
	"raktkosh/internal/shared/objstore"
	"raktkosh/internal/shared/storage/mongostore"
)

func main() {
	// 加载配置（自动加载 .env，根据 APP_ENV 切换配置文件）
	cfg := config.Load()

	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	// 初始化 MongoDB（持久化业务数据）
	store, err := mongostore.NewStore(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()
	log.Println("Connected to MongoDB")

	// 初始化 Redis（可用量汇总缓存，可选）
	var summaryCache cache.SummaryCache = cache.NewNoOpCache()
	if cfg.RedisURL != "" {
		redisCache, err := cacheredis.NewStoreFromURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		summaryCache = redisCache
		log.Println("Connected to Redis")
	} else {
		log.Println("Redis not configured, summary cache disabled")
	}

	// 初始化 MinIO（头像存储，可选）
	var avatars *objstore.Client
	if cfg.MinIO.Enabled {
		avatars, err = objstore.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := avatars.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to ensure MinIO bucket: %v", err)
		}
		cancel()
		log.Println("Connected to MinIO")
	} else {
		log.Println("MinIO not configured, avatar upload disabled")
	}

	authCfg := auth.Config{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
	}
	if !authCfg.Enabled() {
		log.Println("WARNING: JWT_SECRET not set, authentication disabled")
	}

	// 幂等创建初始管理员（未设置 ADMIN_EMAIL/ADMIN_PASSWORD 时跳过）
	if err := auth.EnsureAdminUser(store, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatalf("Failed to ensure admin user: %v", err)
	}

	h := server.NewHandler(store, summaryCache, avatars, authCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      h.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s", cfg.APIPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}
