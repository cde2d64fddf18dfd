package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

type fakeAssessmentRepo struct {
	mu    sync.Mutex
	saved []*domain.Assessment
	err   error
}

func (f *fakeAssessmentRepo) SaveAssessment(_ context.Context, a *domain.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	a.ID = fmt.Sprintf("assessment-%d", len(f.saved)+1)
	f.saved = append(f.saved, a)
	return nil
}

func (f *fakeAssessmentRepo) GetAssessment(_ context.Context, id string) (*domain.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.saved {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
}

func (f *fakeAssessmentRepo) ListAssessments(_ context.Context, patientID string, limit int) ([]*domain.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Assessment{}
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].PatientID == patientID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

type fakeSimulationRepo struct {
	saved []*domain.TreatmentSimulation
}

func (f *fakeSimulationRepo) SaveSimulation(_ context.Context, s *domain.TreatmentSimulation) error {
	s.ID = fmt.Sprintf("sim-%d", len(f.saved)+1)
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeSimulationRepo) ListSimulations(_ context.Context, patientID string, limit int) ([]*domain.TreatmentSimulation, error) {
	out := []*domain.TreatmentSimulation{}
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		if f.saved[i].PatientID == patientID {
			out = append(out, f.saved[i])
		}
	}
	return out, nil
}

// fakeTrainingRepo keeps sessions in insertion order, which tests use as
// chronological order.
type fakeTrainingRepo struct {
	sessions []*domain.GameSession
	checkins []*domain.WellnessCheckin
}

func (f *fakeTrainingRepo) SaveSession(_ context.Context, s *domain.GameSession) error {
	f.sessions = append(f.sessions, s)
	return nil
}

func (f *fakeTrainingRepo) ListSessions(_ context.Context, patientID string, game domain.GameType, limit int) ([]*domain.GameSession, error) {
	out := []*domain.GameSession{}
	for i := len(f.sessions) - 1; i >= 0 && len(out) < limit; i-- {
		s := f.sessions[i]
		if s.PatientID == patientID && (game == "" || s.GameType == game) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeTrainingRepo) SaveCheckin(_ context.Context, c *domain.WellnessCheckin) error {
	f.checkins = append(f.checkins, c)
	return nil
}

func (f *fakeTrainingRepo) ListCheckins(_ context.Context, patientID string, limit int) ([]*domain.WellnessCheckin, error) {
	return f.checkins, nil
}

type fakeChat struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeChat) Complete(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeChat) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}
