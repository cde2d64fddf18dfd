package domain

import "time"

// Disease identifies one of the four conditions the risk scorer evaluates.
type Disease string

const (
	DiseaseAlzheimers Disease = "alzheimers"
	DiseaseParkinsons Disease = "parkinsons"
	DiseaseEpilepsy   Disease = "epilepsy"
	DiseaseHypoxia    Disease = "hypoxia"
)

// Diseases lists the scored conditions in presentation order.
var Diseases = []Disease{DiseaseAlzheimers, DiseaseParkinsons, DiseaseEpilepsy, DiseaseHypoxia}

// IsValid reports whether d is a scored condition.
func (d Disease) IsValid() bool {
	switch d {
	case DiseaseAlzheimers, DiseaseParkinsons, DiseaseEpilepsy, DiseaseHypoxia:
		return true
	default:
		return false
	}
}

// DisplayName returns the label used in reports.
func (d Disease) DisplayName() string {
	switch d {
	case DiseaseAlzheimers:
		return "Alzheimer's Disease"
	case DiseaseParkinsons:
		return "Parkinson's Disease"
	case DiseaseEpilepsy:
		return "Epilepsy"
	case DiseaseHypoxia:
		return "Hypoxia / Stroke"
	default:
		return string(d)
	}
}

// RiskLevel is the clinical risk verdict for one disease.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// IsValid reports whether l is a known risk level.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	default:
		return false
	}
}

// Impact grades how strongly a single risk factor contributes.
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
	ImpactLow    Impact = "Low"
)

// RiskFactor is one labeled contributor to a disease risk score.
type RiskFactor struct {
	Factor string `json:"factor" yaml:"factor"`
	Impact Impact `json:"impact" yaml:"impact"`
}

// DiseaseRiskResult is the verdict for a single disease.
type DiseaseRiskResult struct {
	Disease         Disease      `json:"disease" yaml:"disease"`
	RiskLevel       RiskLevel    `json:"risk_level" yaml:"risk_level"`
	Probability     int          `json:"probability" yaml:"probability"`
	Confidence      int          `json:"confidence" yaml:"confidence"`
	RiskFactors     []RiskFactor `json:"risk_factors" yaml:"risk_factors"`
	Recommendations []string     `json:"recommendations" yaml:"recommendations"`
}

// RiskResults bundles the four per-disease verdicts produced by one scoring call.
type RiskResults struct {
	Alzheimers DiseaseRiskResult `json:"alzheimers" yaml:"alzheimers"`
	Parkinsons DiseaseRiskResult `json:"parkinsons" yaml:"parkinsons"`
	Epilepsy   DiseaseRiskResult `json:"epilepsy" yaml:"epilepsy"`
	Hypoxia    DiseaseRiskResult `json:"hypoxia" yaml:"hypoxia"`
}

// All returns the four results in presentation order.
func (r RiskResults) All() []DiseaseRiskResult {
	return []DiseaseRiskResult{r.Alzheimers, r.Parkinsons, r.Epilepsy, r.Hypoxia}
}

// ByDisease returns the result for d.
func (r RiskResults) ByDisease(d Disease) (DiseaseRiskResult, bool) {
	switch d {
	case DiseaseAlzheimers:
		return r.Alzheimers, true
	case DiseaseParkinsons:
		return r.Parkinsons, true
	case DiseaseEpilepsy:
		return r.Epilepsy, true
	case DiseaseHypoxia:
		return r.Hypoxia, true
	default:
		return DiseaseRiskResult{}, false
	}
}

// Set stores res under its own disease key. Unknown diseases are ignored.
func (r *RiskResults) Set(res DiseaseRiskResult) {
	switch res.Disease {
	case DiseaseAlzheimers:
		r.Alzheimers = res
	case DiseaseParkinsons:
		r.Parkinsons = res
	case DiseaseEpilepsy:
		r.Epilepsy = res
	case DiseaseHypoxia:
		r.Hypoxia = res
	}
}

// Assessment is a persisted intake record together with its scored results.
type Assessment struct {
	ID             string       `json:"id"`
	PatientID      string       `json:"patient_id"`
	AssessmentDate time.Time    `json:"assessment_date"`
	Intake         IntakeRecord `json:"intake"`
	Results        *RiskResults `json:"results,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Patient is the profile row owned by the hosted auth provider.
type Patient struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}
