// Package domain contains the core entities shared by the scoring engine, the
// treatment ranker and the persistence layers of the cognitive-health service.
package domain

import "fmt"

// Gender of the patient as captured on the intake form.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// IsValid reports whether g is one of the supported values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// SmokingStatus is the self-reported smoking history.
type SmokingStatus string

const (
	SmokingNever   SmokingStatus = "Never"
	SmokingFormer  SmokingStatus = "Former"
	SmokingCurrent SmokingStatus = "Current"
)

// IsValid reports whether s is one of the supported values.
func (s SmokingStatus) IsValid() bool {
	switch s {
	case SmokingNever, SmokingFormer, SmokingCurrent:
		return true
	default:
		return false
	}
}

// AlcoholTier is the self-reported alcohol consumption tier.
type AlcoholTier string

const (
	AlcoholNone     AlcoholTier = "None"
	AlcoholLight    AlcoholTier = "Light"
	AlcoholModerate AlcoholTier = "Moderate"
	AlcoholHeavy    AlcoholTier = "Heavy"
)

// IsValid reports whether a is one of the supported values.
func (a AlcoholTier) IsValid() bool {
	switch a {
	case AlcoholNone, AlcoholLight, AlcoholModerate, AlcoholHeavy:
		return true
	default:
		return false
	}
}

// ConfusionFrequency describes how often the patient experiences confusion.
type ConfusionFrequency string

const (
	ConfusionNever     ConfusionFrequency = "Never"
	ConfusionRarely    ConfusionFrequency = "Rarely"
	ConfusionSometimes ConfusionFrequency = "Sometimes"
	ConfusionOften     ConfusionFrequency = "Often"
)

// IsValid reports whether c is one of the supported values.
func (c ConfusionFrequency) IsValid() bool {
	switch c {
	case ConfusionNever, ConfusionRarely, ConfusionSometimes, ConfusionOften:
		return true
	default:
		return false
	}
}

// IntakeRecord is the complete questionnaire answer set consumed by the risk
// scorer. Optional clinical measurements are pointers so that an absent value
// is never confused with zero.
type IntakeRecord struct {
	// Demographics
	Age            int    `json:"age" yaml:"age"`
	Gender         Gender `json:"gender" yaml:"gender"`
	EducationYears int    `json:"education_years" yaml:"education_years"`

	// Medical history
	FamilyHistory         bool `json:"family_history" yaml:"family_history"`
	Hypertension          bool `json:"hypertension" yaml:"hypertension"`
	Diabetes              bool `json:"diabetes" yaml:"diabetes"`
	Depression            bool `json:"depression" yaml:"depression"`
	HeartDisease          bool `json:"heart_disease" yaml:"heart_disease"`
	CardiovascularHistory bool `json:"cardiovascular_history" yaml:"cardiovascular_history"`
	HeadInjury            bool `json:"head_injury" yaml:"head_injury"`
	SeizureHistory        bool `json:"seizure_history" yaml:"seizure_history"`
	SleepApnea            bool `json:"sleep_apnea" yaml:"sleep_apnea"`

	// Lifestyle
	Smoking            SmokingStatus `json:"smoking" yaml:"smoking"`
	AlcoholConsumption AlcoholTier   `json:"alcohol_consumption" yaml:"alcohol_consumption"`
	PhysicalActivity   int           `json:"physical_activity" yaml:"physical_activity"`
	SleepHours         float64       `json:"sleep_hours" yaml:"sleep_hours"`
	BMI                float64       `json:"bmi" yaml:"bmi"`
	GlucoseLevel       *float64      `json:"glucose_level,omitempty" yaml:"glucose_level,omitempty"`

	// Symptoms
	MemoryComplaints        bool               `json:"memory_complaints" yaml:"memory_complaints"`
	Confusion               ConfusionFrequency `json:"confusion" yaml:"confusion"`
	ConcentrationDifficulty bool               `json:"concentration_difficulty" yaml:"concentration_difficulty"`
	Tremors                 bool               `json:"tremors" yaml:"tremors"`
	Rigidity                bool               `json:"rigidity" yaml:"rigidity"`
	Bradykinesia            bool               `json:"bradykinesia" yaml:"bradykinesia"`
	PosturalInstability     bool               `json:"postural_instability" yaml:"postural_instability"`
	BalanceProblems         bool               `json:"balance_problems" yaml:"balance_problems"`
	LossOfSmell             bool               `json:"loss_of_smell" yaml:"loss_of_smell"`
	SleepDisorders          bool               `json:"sleep_disorders" yaml:"sleep_disorders"`
	Constipation            bool               `json:"constipation" yaml:"constipation"`
	SleepDeprivation        bool               `json:"sleep_deprivation" yaml:"sleep_deprivation"`
	StressLevel             int                `json:"stress_level" yaml:"stress_level"`
	EEGAbnormality          bool               `json:"eeg_abnormality" yaml:"eeg_abnormality"`

	// Clinical scores
	MMSEScore           *int `json:"mmse_score,omitempty" yaml:"mmse_score,omitempty"`
	UPDRSScore          *int `json:"updrs_score,omitempty" yaml:"updrs_score,omitempty"`
	FrequencySeizures   *int `json:"frequency_seizures,omitempty" yaml:"frequency_seizures,omitempty"`
	MedicationAdherence int  `json:"medication_adherence" yaml:"medication_adherence"`
}

// Validate checks the record against the ranges the intake form enforces.
// Every violation is returned so that the caller can report them together.
func (r *IntakeRecord) Validate() []*ValidationError {
	var errs []*ValidationError

	checkRange := func(field string, value, min, max float64) {
		if value < min || value > max {
			errs = append(errs, NewValidationError(field, fmt.Sprintf("must be between %g and %g", min, max), value))
		}
	}

	checkRange("age", float64(r.Age), 18, 120)
	if !r.Gender.IsValid() {
		errs = append(errs, NewValidationError("gender", "must be one of Male, Female, Other", r.Gender))
	}
	checkRange("education_years", float64(r.EducationYears), 0, 30)
	checkRange("bmi", r.BMI, 10, 60)
	checkRange("sleep_hours", r.SleepHours, 0, 24)
	checkRange("physical_activity", float64(r.PhysicalActivity), 1, 5)
	checkRange("stress_level", float64(r.StressLevel), 1, 5)
	checkRange("medication_adherence", float64(r.MedicationAdherence), 1, 5)

	if !r.Smoking.IsValid() {
		errs = append(errs, NewValidationError("smoking", "must be one of Never, Former, Current", r.Smoking))
	}
	if !r.AlcoholConsumption.IsValid() {
		errs = append(errs, NewValidationError("alcohol_consumption", "must be one of None, Light, Moderate, Heavy", r.AlcoholConsumption))
	}
	if !r.Confusion.IsValid() {
		errs = append(errs, NewValidationError("confusion", "must be one of Never, Rarely, Sometimes, Often", r.Confusion))
	}

	if r.MMSEScore != nil {
		checkRange("mmse_score", float64(*r.MMSEScore), 0, 30)
	}
	if r.UPDRSScore != nil {
		checkRange("updrs_score", float64(*r.UPDRSScore), 0, 199)
	}
	if r.FrequencySeizures != nil && *r.FrequencySeizures < 0 {
		errs = append(errs, NewValidationError("frequency_seizures", "must not be negative", *r.FrequencySeizures))
	}
	if r.GlucoseLevel != nil && *r.GlucoseLevel < 0 {
		errs = append(errs, NewValidationError("glucose_level", "must not be negative", *r.GlucoseLevel))
	}

	return errs
}

// IntPtr returns a pointer to v. Used to populate optional clinical scores.
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }
