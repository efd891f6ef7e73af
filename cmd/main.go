package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mbeier/famsync/internal/api/http/handler"
	"github.com/mbeier/famsync/internal/api/http/middleware"
	"github.com/mbeier/famsync/internal/api/http/router"
	httpserver "github.com/mbeier/famsync/internal/api/http/server"
	"github.com/mbeier/famsync/internal/config"
	"github.com/mbeier/famsync/internal/logger"
	"github.com/mbeier/famsync/internal/model"
	minioregistry "github.com/mbeier/famsync/internal/registry/minio"
	pgregistry "github.com/mbeier/famsync/internal/registry/postgres"
	redisregistry "github.com/mbeier/famsync/internal/registry/redis"
	"github.com/mbeier/famsync/internal/repository/local"
	"github.com/mbeier/famsync/internal/service"
	"github.com/mbeier/famsync/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	store, err := local.Open(cfg.Local.StorePath)
	if err != nil {
		logger.Fatal("failed to open local store", "error", err)
	}

	accountStore, err := local.NewAccountStore(store)
	if err != nil {
		logger.Fatal("failed to initialize account store", "error", err)
	}
	familyCache, err := local.NewFamilyCache(store)
	if err != nil {
		logger.Fatal("failed to initialize family cache", "error", err)
	}
	chatCache, err := local.NewChatCache(store)
	if err != nil {
		logger.Fatal("failed to initialize chat cache", "error", err)
	}
	sessionStore, err := local.NewSessionStore(store)
	if err != nil {
		logger.Fatal("failed to initialize session store", "error", err)
	}

	// A registry that cannot be reached at startup is not fatal: the device
	// degrades to local-only operation the same way it does mid-session.
	registry := openRegistry(ctx, cfg, logger)

	tokenManager := token.NewJWT(cfg.JWT.Secret)

	accountService := service.NewAccount(accountStore, sessionStore, tokenManager, logger)
	familyService := service.NewFamily(familyCache, sessionStore, registry, cfg.App.Origin, cfg.Registry.Timeout, logger)
	membershipService := service.NewMembership(familyCache, chatCache, sessionStore, registry, cfg.Registry.Timeout, logger)
	chatService := service.NewChat(chatCache, familyCache, registry, cfg.Registry.Timeout, logger)

	r := router.New(
		handler.NewAccount(accountService, logger),
		handler.NewFamily(familyService, membershipService, logger),
		handler.NewChat(chatService, logger),
		middleware.NewAuthenticate(tokenManager, logger),
		middleware.NewLogging(logger),
	)
	httpServer := httpserver.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = httpserver.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = httpserver.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// openRegistry wires the configured remote registry backend. Returns nil for
// backend "none" and for backends that fail to initialize, leaving the device
// in local-only mode.
func openRegistry(ctx context.Context, cfg *config.Config, logger *logger.Logger) model.RemoteRegistry {
	switch cfg.Registry.Backend {
	case "postgres":
		registry, err := pgregistry.New(ctx, cfg.Registry.Database.DSN)
		if err != nil {
			logger.Error("postgres registry unreachable, running local-only", "error", err)
			return nil
		}
		return registry
	case "minio":
		client, err := minio.New(cfg.Registry.Minio.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.Registry.Minio.AccessKey, cfg.Registry.Minio.SecretKey, ""),
			Secure: cfg.Registry.Minio.UseSSL,
		})
		if err != nil {
			logger.Error("failed to create minio client, running local-only", "error", err)
			return nil
		}
		registry, err := minioregistry.New(ctx, client, cfg.Registry.Minio.Bucket)
		if err != nil {
			logger.Error("minio registry unreachable, running local-only", "error", err)
			return nil
		}
		return registry
	case "redis":
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Registry.Redis.Addr,
			Password: cfg.Registry.Redis.Password,
			DB:       cfg.Registry.Redis.DB,
		})
		return redisregistry.New(client)
	case "none":
		return nil
	default:
		logger.Error("unknown registry backend, running local-only", "backend", cfg.Registry.Backend)
		return nil
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
