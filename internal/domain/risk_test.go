package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleResults() RiskResults {
	var r RiskResults
	r.Set(DiseaseRiskResult{Disease: DiseaseAlzheimers, Probability: 40})
	r.Set(DiseaseRiskResult{Disease: DiseaseParkinsons, Probability: 10})
	r.Set(DiseaseRiskResult{Disease: DiseaseEpilepsy, Probability: 5})
	r.Set(DiseaseRiskResult{Disease: DiseaseHypoxia, Probability: 70})
	return r
}

func TestRiskResults_AllOnReturnedValue(t *testing.T) {
	all := sampleResults().All()
	assert.Len(t, all, 4)
	assert.Equal(t, []Disease{DiseaseAlzheimers, DiseaseParkinsons, DiseaseEpilepsy, DiseaseHypoxia},
		[]Disease{all[0].Disease, all[1].Disease, all[2].Disease, all[3].Disease})
}

func TestRiskResults_ByDisease(t *testing.T) {
	res, ok := sampleResults().ByDisease(DiseaseHypoxia)
	assert.True(t, ok)
	assert.Equal(t, 70, res.Probability)

	_, ok = sampleResults().ByDisease(Disease("Migraine"))
	assert.False(t, ok)
}
