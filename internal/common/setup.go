package common

import (
	"context"
	"log"
	"strings"

	"address-sync-go/internal/backend"
	"address-sync-go/internal/cache"
	"address-sync-go/internal/database"
	"address-sync-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Try to load .env file - if it doesn't exist, that's okay
	// Environment variables can be set via other means (shell export, docker, etc.)
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

type Services struct {
	Store   *database.Service
	Backend *backend.Client
	Cache   *cache.Cache
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	storeService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	zap.L().Info("Creating backend client", zap.String("base_url", cfg.Backend.BaseURL))
	backendClient, err := backend.NewClient(cfg.Backend)
	if err != nil {
		storeService.Close()
		return nil, err
	}
	backendClient.SetUnauthorizedHandler(func() {
		zap.L().Warn("Backend session no longer valid, operating offline until a new session is configured")
	})

	knownPlaces, err := LoadKnownPlaces(cfg.Sync.PlacesFile)
	if err != nil {
		storeService.Close()
		return nil, err
	}

	addressCache := cache.New(cache.Config{
		Backend:     backendClient,
		Store:       storeService,
		KnownPlaces: knownPlaces,
	})

	return &Services{
		Store:   storeService,
		Backend: backendClient,
		Cache:   addressCache,
	}, nil
}

// InitializeStoreOnly initializes just the local store without the backend
// client. Useful for read-only operations like listing cached addresses.
func InitializeStoreOnly(ctx context.Context, cfg *models.Config) (*database.Service, error) {
	storeService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return storeService, nil
}

func (cs *Services) Close() {
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
