package treatment

import (
	"math"
	"sort"

	"github.com/cognisphere-server/internal/domain"
)

const maxAIScore = 100

var severityMultiplier = map[domain.DiseaseSeverity]float64{
	domain.SeverityMild:       1.1,
	domain.SeverityModerate:   1.0,
	domain.SeveritySevere:     0.8,
	domain.SeverityVerySevere: 0.65,
}

var costPoints = map[domain.CostTier]float64{
	domain.CostLow:      10,
	domain.CostMedium:   7,
	domain.CostHigh:     4,
	domain.CostVeryHigh: 1,
}

// Ranker scores catalog treatments against patient profiles.
type Ranker struct {
	catalog *Catalog
}

// NewRanker returns a ranker over c. A nil catalog selects DefaultCatalog.
func NewRanker(c *Catalog) *Ranker {
	if c == nil {
		c = DefaultCatalog()
	}
	return &Ranker{catalog: c}
}

// Catalog exposes the ranker's read-only catalog.
func (r *Ranker) Catalog() *Catalog {
	return r.catalog
}

// Compare scores every treatment for disease and orders them by descending AI
// score. Ties keep catalog order. An unknown disease yields an empty list.
func (r *Ranker) Compare(disease domain.TreatmentDisease, profile domain.PatientProfile) []domain.TreatmentRecommendation {
	candidates := r.catalog.ForDisease(disease)
	recs := make([]domain.TreatmentRecommendation, 0, len(candidates))
	for _, t := range candidates {
		recs = append(recs, Recommend(t, profile))
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].AIScore > recs[j].AIScore
	})
	return recs
}

// EfficacyMultiplier is the product of the age, severity, comorbidity and
// medication-load adjustments, applied in that order.
func EfficacyMultiplier(p domain.PatientProfile) float64 {
	m := 1.0

	switch {
	case p.Age >= 80:
		m *= 0.85
	case p.Age >= 70:
		m *= 0.92
	case p.Age < 50:
		m *= 1.05
	}

	if f, ok := severityMultiplier[p.Severity]; ok {
		m *= f
	}

	switch {
	case p.Comorbidities >= 4:
		m *= 0.80
	case p.Comorbidities >= 2:
		m *= 0.90
	}

	if p.MedicationsCount >= 5 {
		m *= 0.88
	}
	return m
}

// Recommend scores a single treatment for a profile. The unrounded adjusted
// efficacy feeds the score; only the displayed value is rounded.
func Recommend(t domain.Treatment, p domain.PatientProfile) domain.TreatmentRecommendation {
	adjusted := math.Min(t.BaseEfficacy*EfficacyMultiplier(p), 100)

	efficacyScore := adjusted / 100 * 50

	meanSE := t.MeanSideEffectProbability()
	safetyScore := (1 - meanSE/100) * 30

	costScore := costPoints[t.Cost]

	factorScore := 5.0
	if p.Age < 60 {
		factorScore += 2
	}
	if p.Comorbidities < 2 {
		factorScore += 3
	}

	total := int(math.Round(efficacyScore + safetyScore + costScore + factorScore))
	if total > maxAIScore {
		total = maxAIScore
	}

	return domain.TreatmentRecommendation{
		Treatment:        t,
		AdjustedEfficacy: int(math.Round(adjusted)),
		AIScore:          total,
		RiskLevel:        SafetyTierFor(meanSE),
		MatchDetails:     []string{},
	}
}

// SafetyTierFor maps a mean side-effect probability onto a display tier.
func SafetyTierFor(meanProbability float64) domain.SafetyTier {
	switch {
	case meanProbability < 5:
		return domain.SafetyVeryLow
	case meanProbability < 15:
		return domain.SafetyLow
	case meanProbability < 25:
		return domain.SafetyMedium
	default:
		return domain.SafetyHigh
	}
}
