package scoring

import (
	"github.com/cognisphere-server/internal/domain"
)

// Predicate decides whether a rule fires for an intake record. Predicates over
// optional fields must return false when the field is absent.
type Predicate func(r *domain.IntakeRecord) bool

// Rule is one weighted contributor to a disease score. A rule with an empty
// Label adds points without surfacing a risk factor.
type Rule struct {
	ID      string
	Points  int
	Label   string
	Impact  domain.Impact
	Applies Predicate
}

// AdviceRule appends Advice when any accumulated factor label contains one of
// Keywords. Matching is case-sensitive.
type AdviceRule struct {
	Keywords []string
	Advice   []string
}

// DiseaseModel holds the rule table and calibration constants for one disease.
type DiseaseModel struct {
	Disease         domain.Disease
	Rules           []Rule
	Damping         float64
	HighThreshold   int
	MediumThreshold int
	BaseConfidence  int
	ConfidenceCap   int
	Advice          []string
	AdviceRules     []AdviceRule
}

func rule(id string, points int, label string, impact domain.Impact, applies Predicate) Rule {
	return Rule{ID: id, Points: points, Label: label, Impact: impact, Applies: applies}
}

func ageBetween(min, max int) Predicate {
	return func(r *domain.IntakeRecord) bool { return r.Age >= min && r.Age < max }
}

func ageAtLeast(min int) Predicate {
	return func(r *domain.IntakeRecord) bool { return r.Age >= min }
}

// optionalIntBetween matches min <= v < max for a present value.
func optionalIntBetween(get func(r *domain.IntakeRecord) *int, min, max int) Predicate {
	return func(r *domain.IntakeRecord) bool {
		v := get(r)
		return v != nil && *v >= min && *v < max
	}
}

func mmse(r *domain.IntakeRecord) *int { return r.MMSEScore }
func updrs(r *domain.IntakeRecord) *int { return r.UPDRSScore }
func seizureFreq(r *domain.IntakeRecord) *int { return r.FrequencySeizures }

const (
	labelFamilyHistory = "Family history of neurological disease"
	labelLowActivity   = "Low physical activity"
	labelDepression    = "History of depression"
	labelHypertension  = "Hypertension"
)

const unbounded = int(^uint(0) >> 1)

func alzheimersModel() DiseaseModel {
	return DiseaseModel{
		Disease: domain.DiseaseAlzheimers,
		Rules: []Rule{
			rule("age_75_plus", 25, "Age 75 or older", domain.ImpactHigh, ageAtLeast(75)),
			rule("age_65_74", 15, "Age 65-74", domain.ImpactMedium, ageBetween(65, 75)),
			rule("age_55_64", 8, "Age 55-64", domain.ImpactLow, ageBetween(55, 65)),
			rule("mmse_severe", 30, "MMSE score ≤20 (severe cognitive impairment)", domain.ImpactHigh,
				optionalIntBetween(mmse, -unbounded, 21)),
			rule("mmse_moderate", 20, "MMSE score 21-24 (moderate impairment)", domain.ImpactHigh,
				optionalIntBetween(mmse, 21, 25)),
			rule("mmse_mild", 8, "MMSE score 25-27 (mild impairment)", domain.ImpactMedium,
				optionalIntBetween(mmse, 25, 28)),
			rule("family_history", 12, labelFamilyHistory, domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.FamilyHistory }),
			rule("memory_complaints", 10, "Memory complaints", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.MemoryComplaints }),
			rule("confusion_often", 15, "Frequent confusion episodes", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.Confusion == domain.ConfusionOften }),
			rule("confusion_sometimes", 8, "Occasional confusion", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.Confusion == domain.ConfusionSometimes }),
			rule("concentration", 8, "Concentration difficulty", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.ConcentrationDifficulty }),
			rule("sleep_short", 7, "Insufficient sleep (<6 hours)", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.SleepHours < 6 }),
			rule("sleep_long", 5, "Excessive sleep (≥9 hours)", domain.ImpactLow,
				func(r *domain.IntakeRecord) bool { return r.SleepHours >= 9 }),
			rule("low_activity", 6, labelLowActivity, domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.PhysicalActivity <= 2 }),
			rule("low_education", 5, "Less than 12 years of education", domain.ImpactLow,
				func(r *domain.IntakeRecord) bool { return r.EducationYears < 12 }),
			rule("depression", 7, labelDepression, domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.Depression }),
			rule("hypertension", 5, labelHypertension, domain.ImpactLow,
				func(r *domain.IntakeRecord) bool { return r.Hypertension }),
			rule("diabetes", 6, "Diabetes", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.Diabetes }),
		},
		Damping:         0.9,
		HighThreshold:   60,
		MediumThreshold: 35,
		BaseConfidence:  75,
		ConfidenceCap:   20,
		Advice: []string{
			"Engage in regular cognitive exercises and brain training activities",
			"Maintain social connections and mentally stimulating activities",
			"Follow a Mediterranean or MIND diet rich in omega-3 fatty acids",
		},
		AdviceRules: []AdviceRule{
			{
				Keywords: []string{"sleep"},
				Advice:   []string{"Improve sleep hygiene and aim for 7-8 hours of quality sleep"},
			},
		},
	}
}

func parkinsonsModel() DiseaseModel {
	return DiseaseModel{
		Disease: domain.DiseaseParkinsons,
		Rules: []Rule{
			rule("tremors", 20, "Tremors present", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.Tremors }),
			rule("rigidity", 18, "Muscle rigidity", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.Rigidity }),
			rule("bradykinesia", 22, "Bradykinesia (slow movement)", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.Bradykinesia }),
			rule("postural_instability", 15, "Postural instability", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.PosturalInstability }),
			rule("updrs_significant", 25, "UPDRS score ≥30 (significant impairment)", domain.ImpactHigh,
				optionalIntBetween(updrs, 30, unbounded)),
			rule("updrs_moderate", 12, "UPDRS score 15-29 (moderate impairment)", domain.ImpactMedium,
				optionalIntBetween(updrs, 15, 30)),
			rule("loss_of_smell", 10, "Loss of smell", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.LossOfSmell }),
			rule("sleep_disorders", 8, "Sleep disorders", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.SleepDisorders }),
			rule("constipation", 6, "Chronic constipation", domain.ImpactLow,
				func(r *domain.IntakeRecord) bool { return r.Constipation }),
			rule("age_65_plus", 12, "Age 65 or older", domain.ImpactMedium, ageAtLeast(65)),
			rule("age_55_64", 6, "Age 55-64", domain.ImpactLow, ageBetween(55, 65)),
			rule("family_history", 10, labelFamilyHistory, domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.FamilyHistory }),
			rule("depression", 7, labelDepression, domain.ImpactLow,
				func(r *domain.IntakeRecord) bool { return r.Depression }),
			// Score-only: contributes points without a displayed factor.
			rule("male", 3, "", "",
				func(r *domain.IntakeRecord) bool { return r.Gender == domain.GenderMale }),
		},
		Damping:         0.85,
		HighThreshold:   55,
		MediumThreshold: 30,
		BaseConfidence:  80,
		ConfidenceCap:   18,
		Advice: []string{
			"Regular physical exercise, especially activities improving balance",
			"Monitor motor symptoms and keep a symptom diary",
			"Consider consultation with a movement disorder specialist",
		},
	}
}

func epilepsyModel() DiseaseModel {
	return DiseaseModel{
		Disease: domain.DiseaseEpilepsy,
		Rules: []Rule{
			rule("seizure_history", 30, "History of seizures", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.SeizureHistory }),
			rule("seizures_frequent", 25, "Frequent seizures (≥4 per month)", domain.ImpactHigh,
				optionalIntBetween(seizureFreq, 4, unbounded)),
			rule("seizures_monthly", 15, "Monthly seizures", domain.ImpactHigh,
				optionalIntBetween(seizureFreq, 1, 4)),
			rule("eeg_abnormality", 20, "EEG abnormalities detected", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.EEGAbnormality }),
			rule("head_injury", 15, "History of head injury", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.HeadInjury }),
			rule("family_history", 12, labelFamilyHistory, domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.FamilyHistory }),
			rule("sleep_deprivation", 10, "Chronic sleep deprivation", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.SleepDeprivation }),
			rule("high_stress", 8, "High stress levels", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.StressLevel >= 4 }),
			rule("poor_adherence", 12, "Poor medication adherence", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.MedicationAdherence < 3 }),
		},
		Damping:         0.9,
		HighThreshold:   50,
		MediumThreshold: 25,
		BaseConfidence:  85,
		ConfidenceCap:   12,
		Advice: []string{
			"Maintain consistent sleep schedule and avoid sleep deprivation",
			"Identify and avoid potential seizure triggers",
			"Ensure medication compliance if currently prescribed",
			"Avoid activities that could be dangerous during a seizure",
		},
	}
}

func hypoxiaModel() DiseaseModel {
	return DiseaseModel{
		Disease: domain.DiseaseHypoxia,
		Rules: []Rule{
			rule("age_70_plus", 18, "Age 70 or older", domain.ImpactHigh, ageAtLeast(70)),
			rule("age_60_69", 12, "Age 60-69", domain.ImpactMedium, ageBetween(60, 70)),
			rule("age_50_59", 6, "Age 50-59", domain.ImpactLow, ageBetween(50, 60)),
			rule("hypertension", 20, labelHypertension, domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.Hypertension }),
			rule("heart_disease", 22, "Heart disease", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.HeartDisease }),
			rule("cardiovascular_history", 18, "Cardiovascular disease history", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.CardiovascularHistory }),
			rule("sleep_apnea", 15, "Sleep apnea", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.SleepApnea }),
			rule("glucose_high", 14, "High glucose level (≥126 mg/dL)", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.GlucoseLevel != nil && *r.GlucoseLevel >= 126 }),
			rule("glucose_elevated", 8, "Elevated glucose level (100-125 mg/dL)", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool {
					return r.GlucoseLevel != nil && *r.GlucoseLevel >= 100 && *r.GlucoseLevel < 126
				}),
			rule("obesity", 12, "Obesity (BMI ≥30)", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.BMI >= 30 }),
			rule("overweight", 6, "Overweight (BMI 25-29.9)", domain.ImpactLow,
				func(r *domain.IntakeRecord) bool { return r.BMI >= 25 && r.BMI < 30 }),
			rule("smoker_current", 16, "Current smoker", domain.ImpactHigh,
				func(r *domain.IntakeRecord) bool { return r.Smoking == domain.SmokingCurrent }),
			rule("smoker_former", 8, "Former smoker", domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.Smoking == domain.SmokingFormer }),
			rule("low_activity", 8, labelLowActivity, domain.ImpactMedium,
				func(r *domain.IntakeRecord) bool { return r.PhysicalActivity <= 2 }),
		},
		Damping:         0.8,
		HighThreshold:   55,
		MediumThreshold: 30,
		BaseConfidence:  72,
		ConfidenceCap:   20,
		Advice: []string{
			"Monitor and manage blood pressure regularly",
			"Adopt heart-healthy lifestyle: exercise, balanced diet, stress management",
			"If you smoke, seek smoking cessation support immediately",
			"Regular cardiovascular health check-ups",
		},
	}
}

// DefaultModels returns fresh copies of the four calibrated disease models in
// presentation order.
func DefaultModels() []DiseaseModel {
	return []DiseaseModel{alzheimersModel(), parkinsonsModel(), epilepsyModel(), hypoxiaModel()}
}
