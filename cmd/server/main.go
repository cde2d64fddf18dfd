package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/api"
	"github.com/cognisphere-server/internal/cache"
	"github.com/cognisphere-server/internal/config"
	"github.com/cognisphere-server/internal/database"
	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/memory"
	"github.com/cognisphere-server/internal/repository"
	"github.com/cognisphere-server/internal/service"
	"github.com/cognisphere-server/internal/treatment"
	"github.com/cognisphere-server/pkg/external"
)

const startupTimeout = 30 * time.Second

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configManager, logger); err != nil {
		logger.WithError(err).Error("Server failed")
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func run(ctx context.Context, configManager *config.Manager, logger *logrus.Logger) error {
	cfg := configManager.GetConfig()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	services := api.Services{}
	var (
		db           *database.DB
		health       api.HealthChecker
		assessments  domain.AssessmentRepository
		simulations  domain.SimulationRepository
		trainingRepo domain.TrainingRepository
	)

	if cfg.Database.Enabled {
		if cfg.Database.AutoMigrate {
			if err := database.MigrateUp(startCtx, configManager.GetDatabaseConnectionString(), cfg.Database.MigrationsPath, logger); err != nil {
				return err
			}
		}

		var err error
		db, err = database.NewConnection(startCtx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		health = db
		assessments = repository.NewAssessmentRepository(db.Pool, logger)
		simulations = repository.NewSimulationRepository(db.Pool, logger)
		trainingRepo = repository.NewTrainingRepository(db.Pool, logger)
		services.Patients = repository.NewPatientRepository(db.Pool, logger)
	} else {
		logger.Warn("Database disabled, running in demo mode")
	}

	store, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	var replies external.ReplyCache
	if cfg.Cache.RedisURL != "" {
		redis, err := external.NewRedisCache(startCtx, cfg.Cache)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, caching replies in memory")
		} else {
			defer redis.Close()
			replies = redis
		}
	}
	if replies == nil {
		replies = external.NewLocalCache(cfg.Cache.LocalMaxItems, cfg.Cache.LocalTTL)
	}

	var chat domain.ChatCompleter
	if gemini := external.NewGeminiClient(cfg.Chat, logger); gemini.Configured() {
		chat = gemini
	} else {
		logger.Warn("Chat API key not set, memory assistant will answer with the fallback reply")
	}

	comparisons := cache.NewMemoryCache[[]domain.TreatmentRecommendation](cfg.Cache.LocalMaxItems, cfg.Cache.LocalTTL)
	services.Assessments = service.NewAssessmentService(logger, nil, assessments)
	services.Treatments = service.NewTreatmentService(logger, treatment.NewRanker(nil), comparisons, simulations)
	services.Training = service.NewTrainingService(logger, trainingRepo)
	services.Memories = service.NewMemoryService(logger, store, chat, replies, cfg.Chat.ReplyTTL)

	logger.WithFields(logrus.Fields{
		"host":         cfg.Server.Host,
		"port":         cfg.Server.Port,
		"environment":  cfg.Environment,
		"auth_enabled": cfg.Auth.Enabled,
		"vault_driver": cfg.Vault.Driver,
	}).Info("Starting Cognisphere API server")

	return api.NewServer(cfg, services, health, logger).Start(ctx)
}

func openVault(cfg *domain.Config) (memory.Store, error) {
	if cfg.Vault.Driver == "postgres" {
		return memory.NewPostgresStoreFromURL(config.DatabaseURL(cfg.Database))
	}
	return memory.NewSQLiteStore(cfg.Vault.SQLitePath)
}
