package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
)

// TrainingRepository stores cognitive-training sessions and wellness check-ins
type TrainingRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewTrainingRepository creates a new training repository
func NewTrainingRepository(db *pgxpool.Pool, logger *logrus.Logger) *TrainingRepository {
	return &TrainingRepository{
		db:  db,
		log: logger,
	}
}

// SaveSession inserts a completed game session
func (r *TrainingRepository) SaveSession(ctx context.Context, s *domain.GameSession) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SessionDate.IsZero() {
		s.SessionDate = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO cognitive_training_sessions (
			id, patient_id, game_type, difficulty, score, time_taken, accuracy,
			disease_type, cognitive_domain, fatigue_reported, performance_trend, session_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.PatientID, string(s.GameType), string(s.Difficulty), s.Score, s.TimeTaken, s.Accuracy,
		string(s.DiseaseType), s.CognitiveDomain, s.FatigueReported, string(s.PerformanceTrend), s.SessionDate,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"session_id": s.ID,
			"game_type":  s.GameType,
			"error":      err,
		}).Error("Failed to create training session")
		return fmt.Errorf("creating training session: %w", err)
	}
	return nil
}

// ListSessions returns a patient's sessions newest first. An empty game
// matches every game type.
func (r *TrainingRepository) ListSessions(ctx context.Context, patientID string, game domain.GameType, limit int) ([]*domain.GameSession, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, patient_id, game_type, difficulty, score, time_taken, accuracy,
			disease_type, cognitive_domain, fatigue_reported, performance_trend, session_date
		FROM cognitive_training_sessions
		WHERE patient_id = $1 AND ($2 = '' OR game_type = $2)
		ORDER BY session_date DESC
		LIMIT $3`, patientID, string(game), limit)
	if err != nil {
		return nil, fmt.Errorf("listing training sessions: %w", err)
	}
	defer rows.Close()

	sessions := []*domain.GameSession{}
	for rows.Next() {
		var s domain.GameSession
		var gameType, difficulty, disease, trend string
		if err := rows.Scan(
			&s.ID, &s.PatientID, &gameType, &difficulty, &s.Score, &s.TimeTaken, &s.Accuracy,
			&disease, &s.CognitiveDomain, &s.FatigueReported, &trend, &s.SessionDate,
		); err != nil {
			return nil, fmt.Errorf("scanning training session: %w", err)
		}
		s.GameType = domain.GameType(gameType)
		s.Difficulty = domain.GameDifficulty(difficulty)
		s.DiseaseType = domain.ClinicalDiseaseType(disease)
		s.PerformanceTrend = domain.PerformanceTrend(trend)
		sessions = append(sessions, &s)
	}
	return sessions, rows.Err()
}

// SaveCheckin inserts a wellness check-in
func (r *TrainingRepository) SaveCheckin(ctx context.Context, c *domain.WellnessCheckin) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO wellness_checkins (id, patient_id, checkin_type, stress_level, energy_level, feeling_tired, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.PatientID, string(c.CheckinType), c.StressLevel, c.EnergyLevel, c.FeelingTired, c.CreatedAt,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"checkin_id": c.ID,
			"error":      err,
		}).Error("Failed to create wellness check-in")
		return fmt.Errorf("creating wellness check-in: %w", err)
	}
	return nil
}

// ListCheckins returns a patient's check-ins newest first
func (r *TrainingRepository) ListCheckins(ctx context.Context, patientID string, limit int) ([]*domain.WellnessCheckin, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, patient_id, checkin_type, stress_level, energy_level, feeling_tired, created_at
		FROM wellness_checkins
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing wellness check-ins: %w", err)
	}
	defer rows.Close()

	checkins := []*domain.WellnessCheckin{}
	for rows.Next() {
		var c domain.WellnessCheckin
		var kind string
		if err := rows.Scan(&c.ID, &c.PatientID, &kind, &c.StressLevel, &c.EnergyLevel, &c.FeelingTired, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning wellness check-in: %w", err)
		}
		c.CheckinType = domain.CheckinType(kind)
		checkins = append(checkins, &c)
	}
	return checkins, rows.Err()
}
