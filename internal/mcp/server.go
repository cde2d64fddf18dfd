// Package mcp serves the scoring, treatment, training and memory-vault
// operations as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/cache"
	"github.com/cognisphere-server/internal/config"
	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/memory"
	"github.com/cognisphere-server/internal/service"
	"github.com/cognisphere-server/internal/treatment"
	"github.com/cognisphere-server/pkg/external"
)

const (
	serverName    = "cognisphere"
	serverVersion = "v1.0.0"
)

// Server is the MCP server. It needs no database: the vault lives in SQLite
// under the data directory and comparisons are cached in memory.
type Server struct {
	config      *config.LiteConfig
	mcpServer   *mcp.Server
	assessments *service.AssessmentService
	treatments  *service.TreatmentService
	training    *service.TrainingService
	memories    *service.MemoryService
	store       memory.Store
	redis       *external.RedisCache
	logger      *logrus.Logger
}

// Option is a functional option for Server.
type Option func(*Server) error

// WithStore sets a custom memory-vault store.
func WithStore(store memory.Store) Option {
	return func(s *Server) error {
		s.store = store
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(s *Server) error {
		s.logger = logger
		return nil
	}
}

// NewServer creates a new MCP server instance.
func NewServer(ctx context.Context, cfg *config.LiteConfig, opts ...Option) (*Server, error) {
	// stdout carries the protocol, so logs go to stderr
	server := &Server{
		config: cfg,
		logger: config.NewLogger(cfg.LogLevel, cfg.LogFormat, "stderr"),
	}

	for _, opt := range opts {
		if err := opt(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.store == nil {
		if err := cfg.EnsureDataDir(); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		store, err := memory.NewSQLiteStore(cfg.VaultDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open memory vault: %w", err)
		}
		server.store = store
	}

	var chat domain.ChatCompleter
	if cfg.GeminiAPIKey != "" {
		chat = external.NewGeminiClient(domain.ChatConfig{
			BaseURL: cfg.GeminiBaseURL,
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
		}, server.logger)
	}

	var replies external.ReplyCache = external.NewLocalCache(cfg.CacheMaxItems, cfg.CacheTTL)
	if cfg.RedisURL != "" {
		redis, err := external.NewRedisCache(ctx, domain.CacheConfig{RedisURL: cfg.RedisURL})
		if err != nil {
			server.logger.WithError(err).Warn("Redis unavailable, caching replies in memory")
		} else {
			server.redis = redis
			replies = redis
		}
	}

	comparisons := cache.NewMemoryCache[[]domain.TreatmentRecommendation](cfg.CacheMaxItems, cfg.CacheTTL)
	server.assessments = service.NewAssessmentService(server.logger, nil, nil)
	server.treatments = service.NewTreatmentService(server.logger, treatment.NewRanker(nil), comparisons, nil)
	server.training = service.NewTrainingService(server.logger, nil)
	server.memories = service.NewMemoryService(server.logger, server.store, chat, replies, cfg.CacheTTL)

	server.mcpServer = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)
	server.registerTools()

	server.logger.WithFields(logrus.Fields{
		"data_dir":      cfg.DataDir,
		"chat_enabled":  chat != nil,
		"redis_replies": server.redis != nil,
	}).Info("MCP server initialized")
	return server, nil
}

// Start runs the server on stdio until ctx is cancelled or the client
// disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting Cognisphere MCP server on stdio")

	if err := s.mcpServer.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Close releases the vault and the Redis connection.
func (s *Server) Close() error {
	var errs []error
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	return errors.Join(errs...)
}
