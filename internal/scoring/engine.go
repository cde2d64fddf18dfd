// Package scoring converts an intake record into per-disease risk verdicts
// using ordered, weighted rule tables.
package scoring

import (
	"math"

	"github.com/cognisphere-server/internal/domain"
)

const (
	// MaxProbability caps every disease probability.
	MaxProbability = 95
	// MaxRiskFactors is the number of factors kept, in rule order.
	MaxRiskFactors = 5
	// MaxRecommendations caps the recommendation list.
	MaxRecommendations = 6
)

// Engine evaluates the disease models. It holds no mutable state and is safe
// for concurrent use.
type Engine struct {
	models []DiseaseModel
}

// NewEngine returns an engine loaded with the calibrated disease models.
func NewEngine() *Engine {
	return &Engine{models: DefaultModels()}
}

// NewEngineWithModels returns an engine over caller-supplied models.
func NewEngineWithModels(models []DiseaseModel) *Engine {
	return &Engine{models: models}
}

// Models returns the rule tables the engine evaluates.
func (e *Engine) Models() []DiseaseModel {
	return e.models
}

// Score evaluates every disease model against r. A nil record is scored as an
// empty one.
func (e *Engine) Score(r *domain.IntakeRecord) domain.RiskResults {
	if r == nil {
		r = &domain.IntakeRecord{}
	}
	var results domain.RiskResults
	for i := range e.models {
		results.Set(e.models[i].Evaluate(r))
	}
	return results
}

// ScoreDisease evaluates the single model for d. A nil record is scored as an
// empty one.
func (e *Engine) ScoreDisease(d domain.Disease, r *domain.IntakeRecord) (domain.DiseaseRiskResult, bool) {
	if r == nil {
		r = &domain.IntakeRecord{}
	}
	for i := range e.models {
		if e.models[i].Disease == d {
			return e.models[i].Evaluate(r), true
		}
	}
	return domain.DiseaseRiskResult{}, false
}

// Accumulate sums the points of every matching rule and collects the labeled
// factors in rule order. Score-only rules add points without a factor.
func (m *DiseaseModel) Accumulate(r *domain.IntakeRecord) (int, []domain.RiskFactor) {
	points := 0
	factors := make([]domain.RiskFactor, 0, len(m.Rules))
	for _, rl := range m.Rules {
		if !rl.Applies(r) {
			continue
		}
		points += rl.Points
		if rl.Label != "" {
			factors = append(factors, domain.RiskFactor{Factor: rl.Label, Impact: rl.Impact})
		}
	}
	return points, factors
}

// Probability converts accumulated points into a capped percentage.
func (m *DiseaseModel) Probability(points int) int {
	p := int(math.Round(float64(points) * m.Damping))
	if p > MaxProbability {
		return MaxProbability
	}
	return p
}

// Level maps a probability onto the model's thresholds.
func (m *DiseaseModel) Level(probability int) domain.RiskLevel {
	switch {
	case probability >= m.HighThreshold:
		return domain.RiskLevelHigh
	case probability >= m.MediumThreshold:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelLow
	}
}

// Confidence grows by two per factor, bounded by the model's cap.
func (m *DiseaseModel) Confidence(factorCount int) int {
	return m.BaseConfidence + min(factorCount*2, m.ConfidenceCap)
}

// Evaluate produces the verdict for one disease.
func (m *DiseaseModel) Evaluate(r *domain.IntakeRecord) domain.DiseaseRiskResult {
	points, factors := m.Accumulate(r)
	probability := m.Probability(points)
	level := m.Level(probability)

	// Recommendations see every factor; the displayed list is positional.
	recommendations := m.Recommend(level, factors)
	shown := factors
	if len(shown) > MaxRiskFactors {
		shown = shown[:MaxRiskFactors]
	}

	return domain.DiseaseRiskResult{
		Disease:         m.Disease,
		RiskLevel:       level,
		Probability:     probability,
		Confidence:      m.Confidence(len(factors)),
		RiskFactors:     shown,
		Recommendations: recommendations,
	}
}
