package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/memory"
	"github.com/cognisphere-server/pkg/external"
)

// insightsWindow bounds how many entries feed the vault insights and the
// assistant context.
const insightsWindow = 500

// MemoryService manages the memory vault and its chat assistant
type MemoryService struct {
	logger   *logrus.Logger
	store    memory.Store
	chat     domain.ChatCompleter
	replies  external.ReplyCache
	replyTTL time.Duration
}

// NewMemoryService creates a new memory service. chat and replies may be nil.
func NewMemoryService(logger *logrus.Logger, store memory.Store, chat domain.ChatCompleter, replies external.ReplyCache, replyTTL time.Duration) *MemoryService {
	return &MemoryService{
		logger:   logger,
		store:    store,
		chat:     chat,
		replies:  replies,
		replyTTL: replyTTL,
	}
}

// Create validates entry and adds it to the patient's vault.
func (s *MemoryService) Create(ctx context.Context, patientID string, entry domain.MemoryEntry) (*domain.MemoryEntry, error) {
	if err := domain.AsError(entry.Validate()); err != nil {
		return nil, err
	}
	entry.ID = ""
	entry.PatientID = patientID
	entry.CreatedAt = time.Time{}
	if err := s.store.Save(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to save memory: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"memory_id":  entry.ID,
		"patient_id": patientID,
		"category":   entry.Category,
	}).Info("Memory saved")
	return &entry, nil
}

// Update replaces the fields of an existing entry.
func (s *MemoryService) Update(ctx context.Context, patientID, id string, entry domain.MemoryEntry) (*domain.MemoryEntry, error) {
	if err := domain.AsError(entry.Validate()); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, patientID, id)
	if err != nil {
		return nil, err
	}

	entry.ID = existing.ID
	entry.PatientID = patientID
	entry.CreatedAt = existing.CreatedAt
	if err := s.store.Save(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to update memory: %w", err)
	}
	return &entry, nil
}

// Get returns an entry owned by patientID.
func (s *MemoryService) Get(ctx context.Context, patientID, id string) (*domain.MemoryEntry, error) {
	entry, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.PatientID != patientID {
		return nil, fmt.Errorf("memory not found: %w", domain.ErrNotFound)
	}
	return entry, nil
}

// List returns the patient's entries newest first.
func (s *MemoryService) List(ctx context.Context, patientID string, category domain.MemoryCategory, limit int) ([]*domain.MemoryEntry, error) {
	if category != "" && !category.IsValid() {
		return nil, domain.AsError([]*domain.ValidationError{
			domain.NewValidationError("category", "unknown memory category", category),
		})
	}
	return s.store.List(ctx, memory.ListOptions{PatientID: patientID, Category: category, Limit: limit})
}

// Delete removes an entry owned by patientID.
func (s *MemoryService) Delete(ctx context.Context, patientID, id string) error {
	if _, err := s.Get(ctx, patientID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Insights summarises the patient's vault.
func (s *MemoryService) Insights(ctx context.Context, patientID string) (domain.MemoryInsights, error) {
	entries, err := s.store.List(ctx, memory.ListOptions{PatientID: patientID, Limit: insightsWindow})
	if err != nil {
		return domain.MemoryInsights{}, fmt.Errorf("failed to load memories: %w", err)
	}
	return memory.Insights(entries), nil
}

// Chat answers message from the patient's vault. When the assistant cannot be
// reached the fallback reply is returned together with the error.
func (s *MemoryService) Chat(ctx context.Context, patientID, message string) (domain.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return domain.ChatMessage{}, domain.AsError([]*domain.ValidationError{
			domain.NewValidationError("message", "is required", message),
		})
	}

	entries, err := s.store.List(ctx, memory.ListOptions{PatientID: patientID, Limit: insightsWindow})
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("failed to load memories: %w", err)
	}
	prompt := memory.AssistantPrompt(message, entries)

	if s.replies != nil {
		reply, ok, err := s.replies.GetReply(ctx, prompt)
		if err != nil {
			s.logger.WithError(err).Warn("Reply cache lookup failed")
		} else if ok {
			return modelMessage(reply), nil
		}
	}

	if s.chat == nil {
		return modelMessage(memory.FallbackReply), domain.ErrChatUnavailable
	}

	reply, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"patient_id": patientID,
			"error":      err,
		}).Error("Memory assistant failed")
		if !errors.Is(err, domain.ErrChatUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrChatUnavailable, err)
		}
		return modelMessage(memory.FallbackReply), err
	}

	if s.replies != nil {
		if err := s.replies.SetReply(ctx, prompt, reply, s.replyTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache assistant reply")
		}
	}
	return modelMessage(reply), nil
}

func modelMessage(text string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      domain.ChatRoleModel,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}
