package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/cache"
	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/treatment"
)

// TreatmentService ranks, simulates and saves treatments
type TreatmentService struct {
	logger      *logrus.Logger
	ranker      *treatment.Ranker
	comparisons *cache.MemoryCache[[]domain.TreatmentRecommendation]
	repo        domain.SimulationRepository
}

// NewTreatmentService creates a new treatment service. comparisons and repo
// may be nil.
func NewTreatmentService(
	logger *logrus.Logger,
	ranker *treatment.Ranker,
	comparisons *cache.MemoryCache[[]domain.TreatmentRecommendation],
	repo domain.SimulationRepository,
) *TreatmentService {
	if ranker == nil {
		ranker = treatment.NewRanker(nil)
	}
	return &TreatmentService{
		logger:      logger,
		ranker:      ranker,
		comparisons: comparisons,
		repo:        repo,
	}
}

// Treatments lists the catalog, optionally restricted to one disease.
func (s *TreatmentService) Treatments(disease domain.TreatmentDisease) ([]domain.Treatment, error) {
	if disease == "" {
		return s.ranker.Catalog().All(), nil
	}
	if !disease.IsValid() {
		return nil, domain.AsError([]*domain.ValidationError{
			domain.NewValidationError("disease", "unsupported disease", disease),
		})
	}
	return s.ranker.Catalog().ForDisease(disease), nil
}

// Treatment returns one catalog entry.
func (s *TreatmentService) Treatment(id string) (domain.Treatment, error) {
	t, ok := s.ranker.GetTreatment(id)
	if !ok {
		return domain.Treatment{}, fmt.Errorf("treatment %q not found: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func comparisonKey(p domain.PatientProfile) string {
	return fmt.Sprintf("%s|%d|%s|%d|%d", p.Disease, p.Age, p.Severity, p.Comorbidities, p.MedicationsCount)
}

// Compare ranks the treatments for the profile's disease.
func (s *TreatmentService) Compare(profile domain.PatientProfile) ([]domain.TreatmentRecommendation, error) {
	if err := domain.AsError(profile.Validate()); err != nil {
		return nil, err
	}

	key := comparisonKey(profile)
	if s.comparisons != nil {
		if recs, ok := s.comparisons.Get(key); ok {
			return cloneRecommendations(recs), nil
		}
	}

	recs := s.ranker.Compare(profile.Disease, profile)
	if s.comparisons != nil {
		s.comparisons.Set(key, cloneRecommendations(recs))
	}

	s.logger.WithFields(logrus.Fields{
		"disease":    profile.Disease,
		"severity":   profile.Severity,
		"candidates": len(recs),
	}).Debug("Treatments ranked")
	return recs, nil
}

// Simulate projects treatment id. profile is optional, but when given it must
// be for the disease the treatment targets.
func (s *TreatmentService) Simulate(id string, profile *domain.PatientProfile) (*domain.SimulationData, error) {
	if profile != nil {
		errs := profile.Validate()
		if t, ok := s.ranker.GetTreatment(id); ok && profile.Disease != t.Disease {
			errs = append(errs, domain.NewValidationError("disease",
				fmt.Sprintf("treatment %s targets %s", t.ID, t.Disease), profile.Disease))
		}
		if err := domain.AsError(errs); err != nil {
			return nil, err
		}
	}
	sim, ok := s.ranker.Simulate(id, profile)
	if !ok {
		return nil, fmt.Errorf("treatment %q not found: %w", id, domain.ErrNotFound)
	}
	return sim, nil
}

// SaveSimulation simulates treatment id for the profile and stores the result
// for patientID.
func (s *TreatmentService) SaveSimulation(ctx context.Context, patientID, id string, profile domain.PatientProfile) (*domain.TreatmentSimulation, error) {
	if s.repo == nil {
		return nil, domain.ErrPersistenceOff
	}

	data, err := s.Simulate(id, &profile)
	if err != nil {
		return nil, err
	}

	record := &domain.TreatmentSimulation{
		PatientID:          patientID,
		Disease:            string(profile.Disease),
		TreatmentID:        data.Treatment.ID,
		TreatmentName:      data.Treatment.Name,
		Age:                profile.Age,
		Severity:           profile.Severity,
		Comorbidities:      profile.Comorbidities,
		CurrentMedications: profile.MedicationsCount,
		AdjustedEfficacy:   data.Treatment.AdjustedEfficacy,
		Timeline:           data.Timeline,
		SideEffects:        data.Treatment.SideEffects,
		MonitoringPlan:     data.MonitoringPlan,
	}
	if err := s.repo.SaveSimulation(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save simulation: %w", err)
	}
	return record, nil
}

// Simulations lists a patient's saved simulations.
func (s *TreatmentService) Simulations(ctx context.Context, patientID string, limit int) ([]*domain.TreatmentSimulation, error) {
	if s.repo == nil {
		return []*domain.TreatmentSimulation{}, nil
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.ListSimulations(ctx, patientID, limit)
}

func cloneRecommendations(recs []domain.TreatmentRecommendation) []domain.TreatmentRecommendation {
	out := make([]domain.TreatmentRecommendation, len(recs))
	for i, r := range recs {
		r.SideEffects = append([]domain.SideEffect{}, r.SideEffects...)
		r.MatchDetails = append([]string{}, r.MatchDetails...)
		out[i] = r
	}
	return out
}
