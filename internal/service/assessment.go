// Package service orchestrates the engines and the persistence layer:
// validate the request, run the pure computation, persist the outcome and
// log what happened.
package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/scoring"
)

// DemoAssessmentID is returned in place of a real id when nothing is persisted.
const DemoAssessmentID = "demo"

// DefaultListLimit bounds list calls that do not specify a limit.
const DefaultListLimit = 50

// AssessmentResult is the outcome of a scored and, when possible, persisted
// intake.
type AssessmentResult struct {
	AssessmentID string             `json:"assessment_id"`
	Results      domain.RiskResults `json:"results"`
	Persisted    bool               `json:"persisted"`
}

// AssessmentService scores intake records and stores them
type AssessmentService struct {
	logger *logrus.Logger
	engine *scoring.Engine
	repo   domain.AssessmentRepository
}

// NewAssessmentService creates a new assessment service. A nil repo puts the
// service in demo mode.
func NewAssessmentService(logger *logrus.Logger, engine *scoring.Engine, repo domain.AssessmentRepository) *AssessmentService {
	if engine == nil {
		engine = scoring.NewEngine()
	}
	return &AssessmentService{
		logger: logger,
		engine: engine,
		repo:   repo,
	}
}

// Persistent reports whether assessments are stored.
func (s *AssessmentService) Persistent() bool {
	return s.repo != nil
}

// Score validates intake and scores it without storing anything.
func (s *AssessmentService) Score(intake *domain.IntakeRecord) (domain.RiskResults, error) {
	if err := domain.AsError(intake.Validate()); err != nil {
		return domain.RiskResults{}, err
	}
	return s.engine.Score(intake), nil
}

// Assess validates and scores intake, then stores it for patientID.
func (s *AssessmentService) Assess(ctx context.Context, patientID string, intake domain.IntakeRecord) (*AssessmentResult, error) {
	results, err := s.Score(&intake)
	if err != nil {
		return nil, err
	}

	if s.repo == nil {
		s.logger.WithFields(logrus.Fields{
			"patient_id": patientID,
		}).Info("Assessment scored in demo mode")
		return &AssessmentResult{AssessmentID: DemoAssessmentID, Results: results}, nil
	}

	assessment := &domain.Assessment{
		PatientID: patientID,
		Intake:    intake,
		Results:   &results,
	}
	if err := s.repo.SaveAssessment(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to save assessment: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"assessment_id":   assessment.ID,
		"patient_id":      patientID,
		"alzheimers_risk": results.Alzheimers.RiskLevel,
		"parkinsons_risk": results.Parkinsons.RiskLevel,
		"epilepsy_risk":   results.Epilepsy.RiskLevel,
		"hypoxia_risk":    results.Hypoxia.RiskLevel,
	}).Info("Assessment completed")

	return &AssessmentResult{AssessmentID: assessment.ID, Results: results, Persisted: true}, nil
}

// Get returns an assessment owned by patientID.
func (s *AssessmentService) Get(ctx context.Context, patientID, id string) (*domain.Assessment, error) {
	if s.repo == nil {
		return nil, domain.ErrPersistenceOff
	}
	a, err := s.repo.GetAssessment(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.PatientID != patientID {
		return nil, fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
	}
	return a, nil
}

// List returns the patient's assessments, newest first.
func (s *AssessmentService) List(ctx context.Context, patientID string, limit int) ([]*domain.Assessment, error) {
	if s.repo == nil {
		return []*domain.Assessment{}, nil
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.ListAssessments(ctx, patientID, limit)
}
