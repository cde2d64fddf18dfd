package report

import (
	"bytes"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cognisphere-server/internal/domain"
	"github.com/cognisphere-server/internal/treatment"
)

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func sampleResults() domain.RiskResults {
	var results domain.RiskResults
	results.Set(domain.DiseaseRiskResult{
		Disease:     domain.DiseaseAlzheimers,
		RiskLevel:   domain.RiskLevelHigh,
		Probability: 72,
		Confidence:  90,
		RiskFactors: []domain.RiskFactor{
			{Factor: "Age 65-74", Impact: domain.ImpactHigh},
			{Factor: "Family history", Impact: domain.ImpactHigh},
		},
		Recommendations: []string{"See a neurologist", "Stay active"},
	})
	results.Set(domain.DiseaseRiskResult{Disease: domain.DiseaseParkinsons, RiskLevel: domain.RiskLevelLow, Probability: 5, Confidence: 75})
	results.Set(domain.DiseaseRiskResult{Disease: domain.DiseaseEpilepsy, RiskLevel: domain.RiskLevelLow, Probability: 5, Confidence: 75})
	results.Set(domain.DiseaseRiskResult{Disease: domain.DiseaseHypoxia, RiskLevel: domain.RiskLevelMedium, Probability: 40, Confidence: 80,
		RiskFactors: []domain.RiskFactor{{Factor: "Hypertension", Impact: domain.ImpactHigh}}})
	return results
}

func TestAssessmentWorkbook(t *testing.T) {
	date := time.Date(2026, 4, 1, 10, 30, 0, 0, time.UTC)
	data, err := AssessmentWorkbook("a-1", date, sampleResults())
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"Summary", "Risk Factors", "Recommendations"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, "Disease", summary[0][0])
	assert.Equal(t, []string{"Alzheimer's Disease", "HIGH", "72", "90", "a-1", "2026-04-01 10:30"}, summary[1])
	assert.Equal(t, "Hypoxia / Stroke", summary[4][0])

	factors, err := f.GetRows("Risk Factors")
	require.NoError(t, err)
	require.Len(t, factors, 4)
	assert.Equal(t, []string{"Alzheimer's Disease", "Family history", "High"}, factors[2])
	assert.Equal(t, []string{"Hypoxia / Stroke", "Hypertension", "High"}, factors[3])

	advice, err := f.GetRows("Recommendations")
	require.NoError(t, err)
	require.Len(t, advice, 3)
	assert.Equal(t, []string{"Alzheimer's Disease", "2", "Stay active"}, advice[2])
}

func TestComparisonWorkbook(t *testing.T) {
	profile := domain.PatientProfile{Age: 65, Disease: domain.TreatmentAlzheimers, Severity: domain.SeverityModerate, Comorbidities: 1, MedicationsCount: 2}
	recs := treatment.NewRanker(nil).Compare(profile.Disease, profile)

	data, err := ComparisonWorkbook(profile, recs)
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{"Treatments", "Profile"}, f.GetSheetList())

	rows, err := f.GetRows("Treatments")
	require.NoError(t, err)
	require.Len(t, rows, len(recs)+1)
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, recs[0].Name, rows[1][1])
	assert.Equal(t, strconv.Itoa(recs[0].AIScore), rows[1][5])
	assert.Equal(t, string(recs[0].RiskLevel), rows[1][6])

	profileRows, err := f.GetRows("Profile")
	require.NoError(t, err)
	assert.Equal(t, []string{"Severity", "Moderate"}, profileRows[3])
}

func TestComparisonWorkbook_Empty(t *testing.T) {
	data, err := ComparisonWorkbook(domain.PatientProfile{}, nil)
	require.NoError(t, err)

	rows, err := open(t, data).GetRows("Treatments")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSideEffectSummary(t *testing.T) {
	got := sideEffectSummary([]domain.SideEffect{
		{Name: "Nausea", Probability: 18, Severity: domain.SideEffectMild},
		{Name: "Insomnia", Probability: 7.5, Severity: domain.SideEffectModerate},
	})
	assert.Equal(t, "Nausea (18%, Mild); Insomnia (7.5%, Moderate)", got)
}
