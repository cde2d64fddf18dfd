package domain

import (
	"fmt"
	"time"
)

// TreatmentDisease names a condition covered by the treatment catalog.
type TreatmentDisease string

const (
	TreatmentAlzheimers TreatmentDisease = "Alzheimer's Disease"
	TreatmentParkinsons TreatmentDisease = "Parkinson's Disease"
	TreatmentEpilepsy   TreatmentDisease = "Epilepsy"
)

// IsValid reports whether d is covered by the catalog.
func (d TreatmentDisease) IsValid() bool {
	switch d {
	case TreatmentAlzheimers, TreatmentParkinsons, TreatmentEpilepsy:
		return true
	default:
		return false
	}
}

// DiseaseSeverity is the clinician-reported stage of the target disease.
type DiseaseSeverity string

const (
	SeverityMild       DiseaseSeverity = "Mild"
	SeverityModerate   DiseaseSeverity = "Moderate"
	SeveritySevere     DiseaseSeverity = "Severe"
	SeverityVerySevere DiseaseSeverity = "Very Severe"
)

// IsValid reports whether s is a known severity.
func (s DiseaseSeverity) IsValid() bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere, SeverityVerySevere:
		return true
	default:
		return false
	}
}

// SideEffectSeverity grades a single adverse effect.
type SideEffectSeverity string

const (
	SideEffectMild     SideEffectSeverity = "Mild"
	SideEffectModerate SideEffectSeverity = "Moderate"
	SideEffectSevere   SideEffectSeverity = "Severe"
)

// CostTier is the relative price band of a treatment.
type CostTier string

const (
	CostLow      CostTier = "Low"
	CostMedium   CostTier = "Medium"
	CostHigh     CostTier = "High"
	CostVeryHigh CostTier = "Very High"
)

// SafetyTier is the display risk tier derived from side-effect probabilities.
// It is unrelated to the clinical RiskLevel.
type SafetyTier string

const (
	SafetyVeryLow SafetyTier = "Very Low"
	SafetyLow     SafetyTier = "Low"
	SafetyMedium  SafetyTier = "Medium"
	SafetyHigh    SafetyTier = "High"
)

// SideEffect is one known adverse effect of a treatment.
type SideEffect struct {
	Name        string             `json:"name" yaml:"name"`
	Probability float64            `json:"probability" yaml:"probability"`
	Severity    SideEffectSeverity `json:"severity" yaml:"severity"`
}

// Treatment is a read-only catalog entry.
type Treatment struct {
	ID           string           `json:"id" yaml:"id"`
	Name         string           `json:"name" yaml:"name"`
	Category     string           `json:"category" yaml:"category"`
	Disease      TreatmentDisease `json:"disease" yaml:"disease"`
	BaseEfficacy float64          `json:"base_efficacy" yaml:"base_efficacy"`
	SideEffects  []SideEffect     `json:"side_effects" yaml:"side_effects"`
	TimeToEffect int              `json:"time_to_effect" yaml:"time_to_effect"`
	Cost         CostTier         `json:"cost" yaml:"cost"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty"`
}

// MeanSideEffectProbability returns the average probability across all side
// effects, or 0 when the treatment has none.
func (t *Treatment) MeanSideEffectProbability() float64 {
	if len(t.SideEffects) == 0 {
		return 0
	}
	var sum float64
	for _, se := range t.SideEffects {
		sum += se.Probability
	}
	return sum / float64(len(t.SideEffects))
}

// PatientProfile carries the covariates used to adjust treatment efficacy.
type PatientProfile struct {
	Age              int              `json:"age"`
	Disease          TreatmentDisease `json:"disease"`
	Severity         DiseaseSeverity  `json:"severity"`
	Comorbidities    int              `json:"comorbidities"`
	MedicationsCount int              `json:"medications_count"`
}

// Validate checks the profile before ranking.
func (p *PatientProfile) Validate() []*ValidationError {
	var errs []*ValidationError
	if p.Age < 0 || p.Age > 120 {
		errs = append(errs, NewValidationError("age", "must be between 0 and 120", p.Age))
	}
	if !p.Disease.IsValid() {
		errs = append(errs, NewValidationError("disease", fmt.Sprintf("unsupported disease %q", p.Disease), p.Disease))
	}
	if !p.Severity.IsValid() {
		errs = append(errs, NewValidationError("severity", "must be one of Mild, Moderate, Severe, Very Severe", p.Severity))
	}
	if p.Comorbidities < 0 {
		errs = append(errs, NewValidationError("comorbidities", "must not be negative", p.Comorbidities))
	}
	if p.MedicationsCount < 0 {
		errs = append(errs, NewValidationError("medications_count", "must not be negative", p.MedicationsCount))
	}
	return errs
}

// TreatmentRecommendation is a catalog entry scored against a patient profile.
type TreatmentRecommendation struct {
	Treatment        `yaml:",inline"`
	AdjustedEfficacy int        `json:"adjusted_efficacy" yaml:"adjusted_efficacy"`
	AIScore          int        `json:"ai_score" yaml:"ai_score"`
	RiskLevel        SafetyTier `json:"risk_level" yaml:"risk_level"`
	MatchDetails     []string   `json:"match_details" yaml:"match_details"`
}

// TimelinePoint is one checkpoint of a simulated treatment course.
type TimelinePoint struct {
	Week        int `json:"week" yaml:"week"`
	Improvement int `json:"improvement" yaml:"improvement"`
	Confidence  int `json:"confidence" yaml:"confidence"`
}

// MonitoringPlan lists the follow-up checks attached to a simulation.
type MonitoringPlan struct {
	Clinical []string `json:"clinical" yaml:"clinical"`
	Labs     []string `json:"labs" yaml:"labs"`
	Schedule string   `json:"schedule" yaml:"schedule"`
}

// SimulationData is the multi-week projection for one treatment.
type SimulationData struct {
	Treatment      TreatmentRecommendation `json:"treatment" yaml:"treatment"`
	Timeline       []TimelinePoint         `json:"timeline" yaml:"timeline"`
	MonitoringPlan MonitoringPlan          `json:"monitoring_plan" yaml:"monitoring_plan"`
	Evidence       []string                `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// TreatmentSimulation is a saved simulation for a patient.
type TreatmentSimulation struct {
	ID                 string          `json:"id"`
	PatientID          string          `json:"patient_id"`
	Disease            string          `json:"disease"`
	TreatmentID        string          `json:"treatment_id"`
	TreatmentName      string          `json:"treatment_name"`
	Age                int             `json:"age"`
	Severity           DiseaseSeverity `json:"severity"`
	Comorbidities      int             `json:"comorbidities"`
	CurrentMedications int             `json:"current_medications"`
	AdjustedEfficacy   int             `json:"adjusted_efficacy"`
	Timeline           []TimelinePoint `json:"timeline"`
	SideEffects        []SideEffect    `json:"side_effects"`
	MonitoringPlan     MonitoringPlan  `json:"monitoring_plan"`
	CreatedAt          time.Time       `json:"created_at"`
}
