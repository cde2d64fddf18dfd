// Package training holds the cognitive-training game catalog and the pure
// calculations behind session trends, stats and wellness check-ins.
package training

import "github.com/cognisphere-server/internal/domain"

var games = []domain.GameConfig{
	{
		ID:                domain.GameMemoryMatch,
		Name:              "Memory Match",
		Description:       "Gentle card matching to support short-term memory stability.",
		SupportedDiseases: []domain.ClinicalDiseaseType{domain.ClinicalAlzheimers, domain.ClinicalEpilepsy},
		CognitiveDomain:   "Short-term Memory",
	},
	{
		ID:                domain.GameWordAssociation,
		Name:              "Word Association",
		Description:       "Semantic connection excercises to maintain verbal fluency.",
		SupportedDiseases: []domain.ClinicalDiseaseType{domain.ClinicalAlzheimers, domain.ClinicalBrainInjury},
		CognitiveDomain:   "Semantic Memory",
	},
	{
		ID:                domain.GameSequenceRecall,
		Name:              "Sequence Recall",
		Description:       "Sequential processing tasks to support executive function.",
		SupportedDiseases: []domain.ClinicalDiseaseType{domain.ClinicalParkinsons, domain.ClinicalBrainInjury},
		CognitiveDomain:   "Executive Function",
	},
	{
		ID:                domain.GamePatternRecognition,
		Name:              "Pattern Recognition",
		Description:       "Visual spatial planning exercises for processing speed.",
		SupportedDiseases: []domain.ClinicalDiseaseType{domain.ClinicalParkinsons, domain.ClinicalBrainInjury},
		CognitiveDomain:   "Visual Processing",
	},
}

func cloneGame(g domain.GameConfig) domain.GameConfig {
	g.SupportedDiseases = append([]domain.ClinicalDiseaseType{}, g.SupportedDiseases...)
	return g
}

// Games returns the full catalog.
func Games() []domain.GameConfig {
	out := make([]domain.GameConfig, len(games))
	for i, g := range games {
		out[i] = cloneGame(g)
	}
	return out
}

// Game looks up a catalog entry by id.
func Game(id domain.GameType) (domain.GameConfig, bool) {
	for _, g := range games {
		if g.ID == id {
			return cloneGame(g), true
		}
	}
	return domain.GameConfig{}, false
}

// GamesFor returns the games designed for disease, in catalog order.
func GamesFor(disease domain.ClinicalDiseaseType) []domain.GameConfig {
	out := []domain.GameConfig{}
	for _, g := range games {
		for _, d := range g.SupportedDiseases {
			if d == disease {
				out = append(out, cloneGame(g))
				break
			}
		}
	}
	return out
}
