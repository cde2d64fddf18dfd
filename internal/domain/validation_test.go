package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validIntake() IntakeRecord {
	return IntakeRecord{
		Age:                 64,
		Gender:              GenderFemale,
		EducationYears:      14,
		Smoking:             SmokingNever,
		AlcoholConsumption:  AlcoholLight,
		PhysicalActivity:    3,
		SleepHours:          7,
		BMI:                 23.5,
		Confusion:           ConfusionRarely,
		StressLevel:         2,
		MedicationAdherence: 5,
	}
}

func fieldsOf(errs []*ValidationError) []string {
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	return fields
}

func TestIntakeRecordValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *IntakeRecord)
		fields []string
	}{
		{"valid record", func(r *IntakeRecord) {}, nil},
		{"too young", func(r *IntakeRecord) { r.Age = 17 }, []string{"age"}},
		{"too old", func(r *IntakeRecord) { r.Age = 121 }, []string{"age"}},
		{"missing gender", func(r *IntakeRecord) { r.Gender = "" }, []string{"gender"}},
		{"bmi below range", func(r *IntakeRecord) { r.BMI = 9.9 }, []string{"bmi"}},
		{"activity out of scale", func(r *IntakeRecord) { r.PhysicalActivity = 0 }, []string{"physical_activity"}},
		{"mmse out of range", func(r *IntakeRecord) { r.MMSEScore = IntPtr(31) }, []string{"mmse_score"}},
		{"mmse zero is present and valid", func(r *IntakeRecord) { r.MMSEScore = IntPtr(0) }, nil},
		{"updrs out of range", func(r *IntakeRecord) { r.UPDRSScore = IntPtr(200) }, []string{"updrs_score"}},
		{"negative seizure frequency", func(r *IntakeRecord) { r.FrequencySeizures = IntPtr(-1) }, []string{"frequency_seizures"}},
		{"unknown confusion value", func(r *IntakeRecord) { r.Confusion = "Always" }, []string{"confusion"}},
		{
			"several violations reported together",
			func(r *IntakeRecord) {
				r.Age = 5
				r.SleepHours = 25
				r.Smoking = "Daily"
			},
			[]string{"age", "sleep_hours", "smoking"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validIntake()
			tt.mutate(&r)
			errs := r.Validate()
			if tt.fields == nil {
				assert.Empty(t, errs)
				return
			}
			assert.Equal(t, tt.fields, fieldsOf(errs))
		})
	}
}

func TestPatientProfileValidate(t *testing.T) {
	p := PatientProfile{Age: 72, Disease: TreatmentParkinsons, Severity: SeverityModerate, Comorbidities: 1}
	assert.Empty(t, p.Validate())

	p.Disease = "Migraine"
	p.Severity = "Critical"
	p.MedicationsCount = -2
	assert.Equal(t, []string{"disease", "severity", "medications_count"}, fieldsOf(p.Validate()))
}

func TestMemoryEntryValidate(t *testing.T) {
	m := MemoryEntry{Title: "Graduation", Date: "2019-06-14", Category: MemoryAchievement}
	assert.Empty(t, m.Validate())

	m = MemoryEntry{Title: "  ", Date: "14/06/2019", Category: "Party"}
	assert.Equal(t, []string{"title", "date", "category"}, fieldsOf(m.Validate()))
}

func TestWellnessCheckinValidate(t *testing.T) {
	w := WellnessCheckin{CheckinType: CheckinPreSession, StressLevel: 3, EnergyLevel: 4}
	assert.Empty(t, w.Validate())

	w.CheckinType = "Mid-Session"
	w.EnergyLevel = 6
	assert.Equal(t, []string{"checkin_type", "energy_level"}, fieldsOf(w.Validate()))
}

func TestRiskResultsByDisease(t *testing.T) {
	var results RiskResults
	results.Set(DiseaseRiskResult{Disease: DiseaseEpilepsy, Probability: 41})
	results.Set(DiseaseRiskResult{Disease: "unknown", Probability: 99})

	res, ok := results.ByDisease(DiseaseEpilepsy)
	require.True(t, ok)
	assert.Equal(t, 41, res.Probability)

	_, ok = results.ByDisease("unknown")
	assert.False(t, ok)
	assert.Len(t, results.All(), 4)
}

func TestMeanSideEffectProbability(t *testing.T) {
	tr := Treatment{SideEffects: []SideEffect{{Probability: 18}, {Probability: 12}}}
	assert.InDelta(t, 15.0, tr.MeanSideEffectProbability(), 1e-9)

	empty := Treatment{}
	assert.Zero(t, empty.MeanSideEffectProbability())
}
