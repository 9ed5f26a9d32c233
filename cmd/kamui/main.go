package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/config"
	httpapi "github.com/namenice/kamui/internal/http"
	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/service"
	"github.com/namenice/kamui/internal/store"
	"github.com/namenice/kamui/pkg/database"
	"github.com/namenice/kamui/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "kamui")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer database.Close(db)

	// Redis only backs the stats cache; without it the noop KV takes over.
	var kv store.KV = store.NoopKV{}
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(redisClient)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	locationsRepo := repository.NewPostgresLocationsRepository(db)
	tenancyRepo := repository.NewPostgresTenancyRepository(db)
	catalogRepo := repository.NewPostgresCatalogRepository(db)
	hardwareRepo := repository.NewPostgresHardwareRepository(db)
	interfacesRepo := repository.NewPostgresInterfacesRepository(db)
	usersRepo := repository.NewPostgresUsersRepository(db)
	statsRepo := repository.NewPostgresStatsRepository(db)

	locationSvc := service.NewLocationService(locationsRepo, log)
	tenancySvc := service.NewTenancyService(tenancyRepo, log)
	catalogSvc := service.NewCatalogService(catalogRepo, log)
	hardwareSvc := service.NewHardwareService(hardwareRepo, locationsRepo, catalogRepo, tenancyRepo, log)
	interfaceSvc := service.NewInterfaceService(interfacesRepo, hardwareRepo, log)
	userSvc := service.NewUserService(usersRepo, log)
	statsSvc := service.NewStatsService(statsRepo, kv, log)

	router := httpapi.NewRouter(log)
	router.RegisterRoutes(&httpapi.Handlers{
		Locations:  httpapi.NewLocationsHandler(locationSvc, log),
		Tenancy:    httpapi.NewTenancyHandler(tenancySvc, log),
		Catalog:    httpapi.NewCatalogHandler(catalogSvc, log),
		Hardware:   httpapi.NewHardwareHandler(hardwareSvc, log),
		Interfaces: httpapi.NewInterfacesHandler(interfaceSvc, log),
		Users:      httpapi.NewUsersHandler(userSvc, log),
		Stats:      httpapi.NewStatsHandler(statsSvc, log),
		Health:     httpapi.NewHealthHandler(db, log),
	})

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
}
