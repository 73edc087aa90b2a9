package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/bitebuddy/gateway"
	"github.com/example/bitebuddy/pkg/audit"
	"github.com/example/bitebuddy/pkg/config"
	"github.com/example/bitebuddy/pkg/credential"
	"github.com/example/bitebuddy/pkg/discovery"
	"github.com/example/bitebuddy/pkg/grpc"
	"github.com/example/bitebuddy/pkg/logger"
	"github.com/example/bitebuddy/pkg/metrics"
	"github.com/example/bitebuddy/pkg/repository"
	"github.com/example/bitebuddy/pkg/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting BiteBuddy",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Gateway.Port),
		zap.String("database", cfg.Database.Driver))

	db, err := repository.OpenDatabase(cfg, log)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	deps := map[string]grpc.Pinger{"database": grpc.PingFunc(pingDatabase(db))}

	// Redis backs sessions and the catalog cache when configured.
	var redisRepo *repository.RedisRepository
	if cfg.Session.Backend == "redis" || cfg.Catalog.CacheEnabled {
		redisRepo = repository.NewRedisRepository(&cfg.Redis)
		defer redisRepo.Close()
		if err := redisRepo.Ping(ctx); err != nil {
			log.Warn("Redis connection failed", zap.Error(err))
		} else {
			log.Info("Redis connected successfully")
		}
		deps["redis"] = redisRepo
	}

	var sessions service.SessionStore
	if cfg.Session.Backend == "redis" {
		sessions = repository.NewRedisSessionStore(redisRepo, cfg.Session.TTL)
	} else {
		sessions = repository.NewMemorySessionStore(cfg.Session.TTL)
	}

	var cache service.CatalogCache
	if cfg.Catalog.CacheEnabled {
		cache = repository.NewCatalogCache(redisRepo, cfg.Catalog.CacheTTL)
	}

	// Audit log
	auditor := service.NopAuditor
	if cfg.MongoDB.Enabled {
		mongoRepo, err := repository.NewMongoRepository(&cfg.MongoDB)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			mongoRepo.Close(closeCtx)
		}()

		recorder, err := audit.NewRecorder(cfg.Server.Name, mongoRepo, log)
		if err != nil {
			log.Fatal("Failed to start audit recorder", zap.Error(err))
		}
		defer recorder.Stop(5 * time.Second)
		auditor = recorder
		deps["mongodb"] = mongoRepo
	}

	catalog := service.NewCatalog(db, cache, log.Named("catalog"))
	services := gateway.Services{
		Accounts: service.NewAccounts(db, credential.NewBcryptHasher(bcrypt.DefaultCost), sessions, auditor, log.Named("accounts")),
		Catalog:  catalog,
		Cart:     service.NewCart(db, catalog, log.Named("cart")),
		Orders:   service.NewOrders(db, auditor, log.Named("orders")),
		Inbox:    service.NewInbox(db, log.Named("inbox")),
	}

	gw := gateway.NewGateway(cfg, log, services, metrics.New())
	gw.SetupRoutes()

	// Start gateway in goroutine
	serverErr := make(chan error, 2)
	go func() {
		if err := gw.Start(); err != nil {
			serverErr <- err
		}
	}()

	var health *grpc.HealthServer
	healthCtx, stopHealth := context.WithCancel(ctx)
	defer stopHealth()
	healthDone := make(chan struct{})
	if cfg.GRPC.Enabled {
		health = grpc.NewHealthServer(cfg.Server.Name, log.Named("health"))
		go func() {
			health.Watch(healthCtx, deps, cfg.GRPC.HealthInterval)
			close(healthDone)
		}()
		go func() {
			if err := health.Start(fmt.Sprintf("%s:%d", cfg.GRPC.Host, cfg.GRPC.Port)); err != nil {
				serverErr <- err
			}
		}()
	}

	// Register in etcd for service discovery
	var registrar *discovery.Registrar
	if cfg.Etcd.Enabled {
		registrar, err = discovery.NewRegistrar(&cfg.Etcd, log)
		if err != nil {
			log.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else if err := registrar.Register(ctx, &discovery.Instance{
			Name: cfg.Server.Name,
			Host: cfg.Gateway.Host,
			Port: cfg.Gateway.Port,
		}); err != nil {
			log.Warn("Failed to register service", zap.Error(err))
		}
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("Received shutdown signal")
	case err := <-serverErr:
		log.Error("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if registrar != nil {
		if err := registrar.Deregister(shutdownCtx); err != nil {
			log.Error("Failed to deregister service", zap.Error(err))
		}
		registrar.Close()
	}
	if health != nil {
		stopHealth()
		<-healthDone
		health.Stop()
	}
	if err := gw.Shutdown(shutdownCtx); err != nil {
		log.Error("Gateway shutdown failed", zap.Error(err))
	}

	log.Info("BiteBuddy stopped")
}

func pingDatabase(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
