package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/trackly/tracker/config"
	"github.com/trackly/tracker/internal/auth"
	"github.com/trackly/tracker/internal/bootstrap"
	dashboardcache "github.com/trackly/tracker/internal/dashboard/cache"
	dashboardrepo "github.com/trackly/tracker/internal/dashboard/repository"
	dashboardservice "github.com/trackly/tracker/internal/dashboard/service"
	"github.com/trackly/tracker/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer sqlDB.Close()

	if cfg.Database.Migrate {
		if err := postgres.Migrate(sqlDB); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.PostgresDSN(),
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	dashboard := dashboardservice.NewDashboardService(
		dashboardrepo.NewStatsRepository(sqlDB),
		dashboardcache.NewStatsCache(rdb, cfg.Redis.CacheTTL),
	)
	var scheduler *dashboardservice.Scheduler
	if cfg.Dashboard.RefreshSpec != "" {
		scheduler = dashboardservice.NewScheduler(dashboard)
		if err := scheduler.Start(cfg.Dashboard.RefreshSpec); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "tracker-api",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		LoginRate:   cfg.Server.LoginRatePerMinute,
		CacheTTL:    cfg.Redis.CacheTTL,
		DB:          pool,
		Redis:       rdb,
		Tokens:      auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Dashboard:   dashboard,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(sctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if scheduler != nil {
		scheduler.Stop()
	}
}
