package scoring

import (
	"strings"

	"github.com/cognisphere-server/internal/domain"
)

var urgencyAdvice = map[domain.RiskLevel][]string{
	domain.RiskLevelHigh: {
		"Consult a neurologist immediately for comprehensive evaluation",
		"Schedule cognitive and neurological testing as soon as possible",
	},
	domain.RiskLevelMedium: {
		"Schedule an appointment with your primary care physician",
		"Consider neurological screening within the next 3-6 months",
	},
}

// lifestyleAdvice applies to every disease. The keywords are matched against
// factor labels case-sensitively, so "Current smoker" does not match "smoking".
var lifestyleAdvice = AdviceRule{
	Keywords: []string{"physical activity", "BMI", "smoking"},
	Advice: []string{
		"Increase physical activity to at least 150 minutes per week",
		"Work with a nutritionist to develop a healthy eating plan",
	},
}

// Recommend builds the recommendation list for a verdict. factors must be the
// full, untruncated factor list.
func (m *DiseaseModel) Recommend(level domain.RiskLevel, factors []domain.RiskFactor) []string {
	recs := make([]string, 0, 10)
	recs = append(recs, urgencyAdvice[level]...)
	recs = append(recs, m.Advice...)
	for _, ar := range m.AdviceRules {
		if ar.matches(factors) {
			recs = append(recs, ar.Advice...)
		}
	}
	if lifestyleAdvice.matches(factors) {
		recs = append(recs, lifestyleAdvice.Advice...)
	}
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

func (ar AdviceRule) matches(factors []domain.RiskFactor) bool {
	for _, f := range factors {
		for _, kw := range ar.Keywords {
			if strings.Contains(f.Factor, kw) {
				return true
			}
		}
	}
	return false
}
