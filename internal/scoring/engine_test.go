package scoring

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognisphere-server/internal/domain"
)

// baseline returns a record that triggers no rule in any disease model.
func baseline() domain.IntakeRecord {
	return domain.IntakeRecord{
		Age:                 40,
		Gender:              domain.GenderFemale,
		EducationYears:      16,
		Smoking:             domain.SmokingNever,
		AlcoholConsumption:  domain.AlcoholNone,
		PhysicalActivity:    4,
		SleepHours:          7.5,
		BMI:                 22,
		Confusion:           domain.ConfusionNever,
		StressLevel:         2,
		MedicationAdherence: 5,
	}
}

func factorLabels(factors []domain.RiskFactor) []string {
	labels := make([]string, 0, len(factors))
	for _, f := range factors {
		labels = append(labels, f.Factor)
	}
	return labels
}

func TestScore_BaselineIsLowEverywhere(t *testing.T) {
	engine := NewEngine()
	r := baseline()

	results := engine.Score(&r)
	for _, res := range results.All() {
		assert.Equal(t, domain.RiskLevelLow, res.RiskLevel, res.Disease)
		assert.Zero(t, res.Probability, res.Disease)
		assert.Empty(t, res.RiskFactors, res.Disease)
	}
	assert.Equal(t, 75, results.Alzheimers.Confidence)
	assert.Equal(t, 80, results.Parkinsons.Confidence)
	assert.Equal(t, 85, results.Epilepsy.Confidence)
	assert.Equal(t, 72, results.Hypoxia.Confidence)
	assert.Len(t, results.Hypoxia.Recommendations, 4)
}

func TestScore_AlzheimersMediumExample(t *testing.T) {
	engine := NewEngine()
	r := baseline()
	r.Age = 70
	r.MMSEScore = domain.IntPtr(22)
	r.FamilyHistory = true
	r.Confusion = domain.ConfusionSometimes

	res := engine.Score(&r).Alzheimers

	assert.Equal(t, domain.DiseaseAlzheimers, res.Disease)
	assert.Equal(t, 50, res.Probability)
	assert.Equal(t, domain.RiskLevelMedium, res.RiskLevel)
	assert.Equal(t, 83, res.Confidence)
	assert.Equal(t, []string{
		"Age 65-74",
		"MMSE score 21-24 (moderate impairment)",
		"Family history of neurological disease",
		"Occasional confusion",
	}, factorLabels(res.RiskFactors))
	assert.Equal(t, []string{
		"Schedule an appointment with your primary care physician",
		"Consider neurological screening within the next 3-6 months",
		"Engage in regular cognitive exercises and brain training activities",
		"Maintain social connections and mentally stimulating activities",
		"Follow a Mediterranean or MIND diet rich in omega-3 fatty acids",
	}, res.Recommendations)
}

func TestScore_TruncationIsPositional(t *testing.T) {
	engine := NewEngine()
	r := baseline()
	r.Age = 80
	r.MMSEScore = domain.IntPtr(18)
	r.FamilyHistory = true
	r.MemoryComplaints = true
	r.Confusion = domain.ConfusionOften
	r.ConcentrationDifficulty = true
	r.SleepHours = 5
	r.PhysicalActivity = 1
	r.EducationYears = 8
	r.Depression = true
	r.Hypertension = true
	r.Diabetes = true

	res := engine.Score(&r).Alzheimers

	assert.Equal(t, MaxProbability, res.Probability)
	assert.Equal(t, domain.RiskLevelHigh, res.RiskLevel)
	assert.Equal(t, 95, res.Confidence)
	assert.Equal(t, []string{
		"Age 75 or older",
		"MMSE score ≤20 (severe cognitive impairment)",
		"Family history of neurological disease",
		"Memory complaints",
		"Frequent confusion episodes",
	}, factorLabels(res.RiskFactors))

	// The sleep factor sits past the displayed five but still drives advice.
	assert.Equal(t, []string{
		"Consult a neurologist immediately for comprehensive evaluation",
		"Schedule cognitive and neurological testing as soon as possible",
		"Engage in regular cognitive exercises and brain training activities",
		"Maintain social connections and mentally stimulating activities",
		"Follow a Mediterranean or MIND diet rich in omega-3 fatty acids",
		"Improve sleep hygiene and aim for 7-8 hours of quality sleep",
	}, res.Recommendations)
}

func TestScore_MaleAddsPointsWithoutFactor(t *testing.T) {
	engine := NewEngine()
	female := baseline()
	female.Tremors = true
	male := female
	male.Gender = domain.GenderMale

	f := engine.Score(&female).Parkinsons
	m := engine.Score(&male).Parkinsons

	assert.Equal(t, 17, f.Probability)
	assert.Equal(t, 20, m.Probability)
	assert.Equal(t, f.RiskFactors, m.RiskFactors)
	assert.Equal(t, f.Confidence, m.Confidence)
}

func TestScore_OptionalScoresAbsentVersusZero(t *testing.T) {
	engine := NewEngine()
	absent := baseline()
	zero := baseline()
	zero.MMSEScore = domain.IntPtr(0)
	zero.UPDRSScore = domain.IntPtr(0)
	zero.FrequencySeizures = domain.IntPtr(0)
	zero.GlucoseLevel = domain.Float64Ptr(0)

	a := engine.Score(&absent)
	z := engine.Score(&zero)

	assert.Zero(t, a.Alzheimers.Probability)
	assert.Equal(t, 27, z.Alzheimers.Probability)
	assert.Equal(t, []string{"MMSE score ≤20 (severe cognitive impairment)"}, factorLabels(z.Alzheimers.RiskFactors))
	assert.Equal(t, a.Parkinsons, z.Parkinsons)
	assert.Equal(t, a.Epilepsy, z.Epilepsy)
	assert.Equal(t, a.Hypoxia, z.Hypoxia)
}

func TestScore_TieredRules(t *testing.T) {
	engine := NewEngine()
	tests := []struct {
		name    string
		disease domain.Disease
		mutate  func(r *domain.IntakeRecord)
		labels  []string
		prob    int
	}{
		{"mmse 24 is moderate", domain.DiseaseAlzheimers, func(r *domain.IntakeRecord) { r.MMSEScore = domain.IntPtr(24) },
			[]string{"MMSE score 21-24 (moderate impairment)"}, 18},
		{"mmse 27 is mild", domain.DiseaseAlzheimers, func(r *domain.IntakeRecord) { r.MMSEScore = domain.IntPtr(27) },
			[]string{"MMSE score 25-27 (mild impairment)"}, 7},
		{"mmse 28 is normal", domain.DiseaseAlzheimers, func(r *domain.IntakeRecord) { r.MMSEScore = domain.IntPtr(28) },
			[]string{}, 0},
		{"updrs 15 is moderate", domain.DiseaseParkinsons, func(r *domain.IntakeRecord) { r.UPDRSScore = domain.IntPtr(15) },
			[]string{"UPDRS score 15-29 (moderate impairment)"}, 10},
		{"updrs 30 is significant", domain.DiseaseParkinsons, func(r *domain.IntakeRecord) { r.UPDRSScore = domain.IntPtr(30) },
			[]string{"UPDRS score ≥30 (significant impairment)"}, 21},
		{"three seizures a month", domain.DiseaseEpilepsy, func(r *domain.IntakeRecord) { r.FrequencySeizures = domain.IntPtr(3) },
			[]string{"Monthly seizures"}, 14},
		{"four seizures a month", domain.DiseaseEpilepsy, func(r *domain.IntakeRecord) { r.FrequencySeizures = domain.IntPtr(4) },
			[]string{"Frequent seizures (≥4 per month)"}, 23},
		{"glucose 125.9 is elevated", domain.DiseaseHypoxia, func(r *domain.IntakeRecord) { r.GlucoseLevel = domain.Float64Ptr(125.9) },
			[]string{"Elevated glucose level (100-125 mg/dL)"}, 6},
		{"bmi 29.9 is overweight", domain.DiseaseHypoxia, func(r *domain.IntakeRecord) { r.BMI = 29.9 },
			[]string{"Overweight (BMI 25-29.9)"}, 5},
		{"age 60 on vascular table", domain.DiseaseHypoxia, func(r *domain.IntakeRecord) { r.Age = 60 },
			[]string{"Age 60-69"}, 10},
		{"stress 4 and poor adherence", domain.DiseaseEpilepsy, func(r *domain.IntakeRecord) {
			r.StressLevel = 4
			r.MedicationAdherence = 2
		}, []string{"High stress levels", "Poor medication adherence"}, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseline()
			tt.mutate(&r)
			res, ok := engine.ScoreDisease(tt.disease, &r)
			require.True(t, ok)
			assert.Equal(t, tt.labels, factorLabels(res.RiskFactors))
			assert.Equal(t, tt.prob, res.Probability)
		})
	}
}

func TestScore_HypoxiaThresholds(t *testing.T) {
	engine := NewEngine()
	r := baseline()
	r.Age = 72
	r.Hypertension = true
	r.HeartDisease = true

	res := engine.Score(&r).Hypoxia
	assert.Equal(t, 48, res.Probability)
	assert.Equal(t, domain.RiskLevelMedium, res.RiskLevel)

	r.SleepApnea = true
	res = engine.Score(&r).Hypoxia
	assert.Equal(t, 60, res.Probability)
	assert.Equal(t, domain.RiskLevelHigh, res.RiskLevel)
	assert.Equal(t, 80, res.Confidence)
}

func TestRecommend_LifestyleKeywords(t *testing.T) {
	engine := NewEngine()

	smoker := baseline()
	smoker.Smoking = domain.SmokingCurrent
	res := engine.Score(&smoker).Hypoxia
	assert.Equal(t, []string{"Current smoker"}, factorLabels(res.RiskFactors))
	assert.Len(t, res.Recommendations, 4, "smoker labels do not contain the lowercase keyword")

	obese := baseline()
	obese.BMI = 31
	res = engine.Score(&obese).Hypoxia
	assert.Len(t, res.Recommendations, 6)
	assert.Equal(t, "Work with a nutritionist to develop a healthy eating plan", res.Recommendations[5])

	inactive := baseline()
	inactive.PhysicalActivity = 2
	res = engine.Score(&inactive).Alzheimers
	assert.Equal(t, []string{
		"Engage in regular cognitive exercises and brain training activities",
		"Maintain social connections and mentally stimulating activities",
		"Follow a Mediterranean or MIND diet rich in omega-3 fatty acids",
		"Increase physical activity to at least 150 minutes per week",
		"Work with a nutritionist to develop a healthy eating plan",
	}, res.Recommendations)
}

func TestScore_NilRecord(t *testing.T) {
	engine := NewEngine()
	results := engine.Score(nil)
	for _, res := range results.All() {
		assert.True(t, res.RiskLevel.IsValid())
	}
}

func TestScoreDisease_NilRecord(t *testing.T) {
	engine := NewEngine()
	empty := engine.Score(nil)
	for _, want := range empty.All() {
		got, ok := engine.ScoreDisease(want.Disease, nil)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestScoreDisease_Unknown(t *testing.T) {
	r := baseline()
	_, ok := NewEngine().ScoreDisease("migraine", &r)
	assert.False(t, ok)
}

func randomIntake(rng *rand.Rand) domain.IntakeRecord {
	pickBool := func() bool { return rng.Intn(2) == 1 }
	r := domain.IntakeRecord{
		Age:                     18 + rng.Intn(103),
		Gender:                  []domain.Gender{domain.GenderMale, domain.GenderFemale, domain.GenderOther}[rng.Intn(3)],
		EducationYears:          rng.Intn(25),
		FamilyHistory:           pickBool(),
		Hypertension:            pickBool(),
		Diabetes:                pickBool(),
		Depression:              pickBool(),
		HeartDisease:            pickBool(),
		CardiovascularHistory:   pickBool(),
		HeadInjury:              pickBool(),
		SeizureHistory:          pickBool(),
		SleepApnea:              pickBool(),
		Smoking:                 []domain.SmokingStatus{domain.SmokingNever, domain.SmokingFormer, domain.SmokingCurrent}[rng.Intn(3)],
		PhysicalActivity:        1 + rng.Intn(5),
		SleepHours:              float64(rng.Intn(25)),
		BMI:                     10 + rng.Float64()*50,
		MemoryComplaints:        pickBool(),
		Confusion:               []domain.ConfusionFrequency{domain.ConfusionNever, domain.ConfusionRarely, domain.ConfusionSometimes, domain.ConfusionOften}[rng.Intn(4)],
		ConcentrationDifficulty: pickBool(),
		Tremors:                 pickBool(),
		Rigidity:                pickBool(),
		Bradykinesia:            pickBool(),
		PosturalInstability:     pickBool(),
		LossOfSmell:             pickBool(),
		SleepDisorders:          pickBool(),
		Constipation:            pickBool(),
		SleepDeprivation:        pickBool(),
		StressLevel:             1 + rng.Intn(5),
		EEGAbnormality:          pickBool(),
		MedicationAdherence:     1 + rng.Intn(5),
	}
	if pickBool() {
		r.MMSEScore = domain.IntPtr(rng.Intn(31))
	}
	if pickBool() {
		r.UPDRSScore = domain.IntPtr(rng.Intn(200))
	}
	if pickBool() {
		r.FrequencySeizures = domain.IntPtr(rng.Intn(10))
	}
	if pickBool() {
		r.GlucoseLevel = domain.Float64Ptr(60 + rng.Float64()*120)
	}
	return r
}

func TestScore_BoundsHoldForRandomRecords(t *testing.T) {
	engine := NewEngine()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		r := randomIntake(rng)
		for _, res := range engine.Score(&r).All() {
			require.GreaterOrEqual(t, res.Probability, 0)
			require.LessOrEqual(t, res.Probability, MaxProbability)
			require.GreaterOrEqual(t, res.Confidence, 0)
			require.LessOrEqual(t, res.Confidence, 100)
			require.LessOrEqual(t, len(res.RiskFactors), MaxRiskFactors)
			require.LessOrEqual(t, len(res.Recommendations), MaxRecommendations)
		}
	}
}

func TestScore_BooleanFlagsAreMonotonic(t *testing.T) {
	engine := NewEngine()
	rng := rand.New(rand.NewSource(7))

	boolFields := []string{}
	typ := reflect.TypeOf(domain.IntakeRecord{})
	for i := 0; i < typ.NumField(); i++ {
		if typ.Field(i).Type.Kind() == reflect.Bool {
			boolFields = append(boolFields, typ.Field(i).Name)
		}
	}
	require.NotEmpty(t, boolFields)

	for i := 0; i < 200; i++ {
		r := randomIntake(rng)
		for _, name := range boolFields {
			off, on := r, r
			reflect.ValueOf(&off).Elem().FieldByName(name).SetBool(false)
			reflect.ValueOf(&on).Elem().FieldByName(name).SetBool(true)

			lo := engine.Score(&off).All()
			hi := engine.Score(&on).All()
			for d := range lo {
				assert.GreaterOrEqual(t, hi[d].Probability, lo[d].Probability, "%s on %s", name, lo[d].Disease)
			}
		}
	}
}

func TestScore_EnumTiersAreMonotonic(t *testing.T) {
	engine := NewEngine()

	confusion := []domain.ConfusionFrequency{domain.ConfusionNever, domain.ConfusionSometimes, domain.ConfusionOften}
	prev := -1
	for _, c := range confusion {
		r := baseline()
		r.Confusion = c
		p := engine.Score(&r).Alzheimers.Probability
		assert.GreaterOrEqual(t, p, prev, c)
		prev = p
	}

	smoking := []domain.SmokingStatus{domain.SmokingNever, domain.SmokingFormer, domain.SmokingCurrent}
	prev = -1
	for _, s := range smoking {
		r := baseline()
		r.Smoking = s
		p := engine.Score(&r).Hypoxia.Probability
		assert.GreaterOrEqual(t, p, prev, s)
		prev = p
	}
}

func TestDefaultModels_RuleIDsUnique(t *testing.T) {
	for _, m := range DefaultModels() {
		seen := map[string]bool{}
		for _, rl := range m.Rules {
			assert.False(t, seen[rl.ID], "%s: duplicate rule %s", m.Disease, rl.ID)
			seen[rl.ID] = true
			assert.NotNil(t, rl.Applies)
		}
	}
}
