package treatment

import (
	"fmt"
	"math"

	"github.com/cognisphere-server/internal/domain"
)

// SimulationWeeks are the fixed timeline checkpoints.
var SimulationWeeks = []int{2, 4, 8, 12, 24}

const (
	placeholderAIScore = 85
	maxConfidence      = 98
)

var clinicalChecks = []string{
	"Monthly cognitive assessment for first 3 months",
	"Quality of life questionnaire",
	"Caregiver burden interview",
}

var labChecks = []string{
	"Complete Blood Count (CBC) every 6 months",
	"Liver function tests annually",
	"Blood pressure monitoring weekly",
}

var evidenceCitations = []string{
	"New England Journal of Medicine, Vol 378, 2023. 'Efficacy of modern neurological interventions'",
	"Lancet Neurology, 2024. 'Comparative analysis of long-term outcomes'",
	"Journal of Clinical Medicine. 'Patient-stratified treatment responses'",
}

// GetTreatment looks up a treatment by id.
func (r *Ranker) GetTreatment(id string) (domain.Treatment, bool) {
	return r.catalog.Get(id)
}

// Simulate projects the course of treatment id. The second return value is
// false when the id is not in the catalog.
//
// Without a profile the wrapped recommendation carries static placeholder
// scores. With one, it is the profile-specific recommendation from Recommend.
// The timeline always follows base efficacy.
func (r *Ranker) Simulate(id string, profile *domain.PatientProfile) (*domain.SimulationData, bool) {
	t, ok := r.catalog.Get(id)
	if !ok {
		return nil, false
	}

	var rec domain.TreatmentRecommendation
	if profile != nil {
		rec = Recommend(t, *profile)
	} else {
		rec = domain.TreatmentRecommendation{
			Treatment:        t,
			AdjustedEfficacy: int(math.Round(t.BaseEfficacy)),
			AIScore:          placeholderAIScore,
			RiskLevel:        domain.SafetyMedium,
			MatchDetails:     []string{},
		}
	}

	return &domain.SimulationData{
		Treatment: rec,
		Timeline:  Timeline(t),
		MonitoringPlan: domain.MonitoringPlan{
			Clinical: append([]string{}, clinicalChecks...),
			Labs:     append([]string{}, labChecks...),
			Schedule: followUpSchedule(t.TimeToEffect),
		},
		Evidence: append([]string{}, evidenceCitations...),
	}, true
}

// Timeline ramps improvement linearly up to the time to effect, holds it just
// past that point and adds a small boost once well beyond it.
func Timeline(t domain.Treatment) []domain.TimelinePoint {
	points := make([]domain.TimelinePoint, 0, len(SimulationWeeks))
	for _, week := range SimulationWeeks {
		// A zero time to effect means the treatment is already at full effect.
		ratio := math.Inf(1)
		if t.TimeToEffect > 0 {
			ratio = float64(week) / float64(t.TimeToEffect)
		}
		if ratio > 1.2 {
			ratio = 1.05
		} else if ratio > 1 {
			ratio = 1.0
		}
		points = append(points, domain.TimelinePoint{
			Week:        week,
			Improvement: int(math.Round(t.BaseEfficacy * ratio)),
			Confidence:  min(80+week*2, maxConfidence),
		})
	}
	return points
}

func followUpSchedule(timeToEffect int) string {
	first := int(math.Round(float64(timeToEffect) / 2))
	return fmt.Sprintf("Initial follow-up at %d weeks, then at week %d to assess peak efficacy.", first, timeToEffect)
}
