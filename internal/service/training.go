package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/training"
)

// statsWindow bounds how many sessions feed GameStats.
const statsWindow = 1000

// TrainingService records cognitive-training sessions and wellness check-ins
type TrainingService struct {
	logger *logrus.Logger
	repo   domain.TrainingRepository
	now    func() time.Time
}

// NewTrainingService creates a new training service. With a nil repo
// sessions are evaluated but not stored.
func NewTrainingService(logger *logrus.Logger, repo domain.TrainingRepository) *TrainingService {
	return &TrainingService{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

// Games returns the catalog, or only the games for disease when it is set.
func (s *TrainingService) Games(disease domain.ClinicalDiseaseType) ([]domain.GameConfig, error) {
	if disease == "" {
		return training.Games(), nil
	}
	if !disease.IsValid() {
		return nil, domain.AsError([]*domain.ValidationError{
			domain.NewValidationError("disease", "unknown clinical disease type", disease),
		})
	}
	return training.GamesFor(disease), nil
}

// RecordSession validates a finished session, fills in its cognitive domain
// and performance trend, and stores it.
func (s *TrainingService) RecordSession(ctx context.Context, patientID string, session domain.GameSession) (*domain.GameSession, error) {
	if err := domain.AsError(session.Validate()); err != nil {
		return nil, err
	}

	session.PatientID = patientID
	if game, ok := training.Game(session.GameType); ok {
		session.CognitiveDomain = game.CognitiveDomain
	}
	if session.SessionDate.IsZero() {
		session.SessionDate = s.now().UTC()
	}

	if s.repo == nil {
		session.PerformanceTrend = domain.TrendStable
		return &session, nil
	}

	prior, err := s.repo.ListSessions(ctx, patientID, session.GameType, training.TrendWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to load session history: %w", err)
	}
	scores := make([]int, 0, len(prior))
	for _, p := range prior {
		scores = append(scores, p.Score)
	}
	session.PerformanceTrend = training.Trend(scores, session.Score)

	if err := s.repo.SaveSession(ctx, &session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"patient_id": patientID,
		"game_type":  session.GameType,
		"score":      session.Score,
		"trend":      session.PerformanceTrend,
	}).Info("Training session recorded")
	return &session, nil
}

// Stats summarises the patient's training history.
func (s *TrainingService) Stats(ctx context.Context, patientID string) (domain.GameStats, error) {
	if s.repo == nil {
		return domain.GameStats{}, nil
	}
	sessions, err := s.repo.ListSessions(ctx, patientID, "", statsWindow)
	if err != nil {
		return domain.GameStats{}, fmt.Errorf("failed to load sessions: %w", err)
	}
	return training.Stats(sessions, s.now()), nil
}

// RecordCheckin validates and stores a wellness check-in. Low energy always
// marks the patient as tired.
func (s *TrainingService) RecordCheckin(ctx context.Context, patientID string, checkin domain.WellnessCheckin) (*domain.WellnessCheckin, error) {
	if err := domain.AsError(checkin.Validate()); err != nil {
		return nil, err
	}
	checkin.PatientID = patientID
	training.ApplyFatigueRule(&checkin)

	if s.repo == nil {
		return &checkin, nil
	}
	if err := s.repo.SaveCheckin(ctx, &checkin); err != nil {
		return nil, fmt.Errorf("failed to save check-in: %w", err)
	}

	if checkin.FeelingTired {
		s.logger.WithFields(logrus.Fields{
			"patient_id":   patientID,
			"energy_level": checkin.EnergyLevel,
		}).Info("Patient reported fatigue")
	}
	return &checkin, nil
}
