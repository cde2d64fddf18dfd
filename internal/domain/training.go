package domain

import "time"

// GameType identifies a cognitive-training exercise.
type GameType string

const (
	GameMemoryMatch        GameType = "memory_match"
	GameSequenceRecall     GameType = "sequence_recall"
	GamePatternRecognition GameType = "pattern_recognition"
	GameWordAssociation    GameType = "word_association"
)

// IsValid reports whether g is a known game.
func (g GameType) IsValid() bool {
	switch g {
	case GameMemoryMatch, GameSequenceRecall, GamePatternRecognition, GameWordAssociation:
		return true
	default:
		return false
	}
}

// GameDifficulty is the difficulty the patient selected.
type GameDifficulty string

const (
	DifficultyEasy   GameDifficulty = "Easy"
	DifficultyMedium GameDifficulty = "Medium"
	DifficultyHard   GameDifficulty = "Hard"
)

// IsValid reports whether d is a known difficulty.
func (d GameDifficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// ClinicalDiseaseType groups games by the condition they are designed for.
type ClinicalDiseaseType string

const (
	ClinicalAlzheimers  ClinicalDiseaseType = "Alzheimers"
	ClinicalParkinsons  ClinicalDiseaseType = "Parkinsons"
	ClinicalEpilepsy    ClinicalDiseaseType = "Epilepsy"
	ClinicalBrainInjury ClinicalDiseaseType = "Brain Injury"
)

// IsValid reports whether c is a known clinical grouping.
func (c ClinicalDiseaseType) IsValid() bool {
	switch c {
	case ClinicalAlzheimers, ClinicalParkinsons, ClinicalEpilepsy, ClinicalBrainInjury:
		return true
	default:
		return false
	}
}

// PerformanceTrend summarises a session score against recent history.
type PerformanceTrend string

const (
	TrendImproving PerformanceTrend = "Improving"
	TrendStable    PerformanceTrend = "Stable"
	TrendDeclining PerformanceTrend = "Declining"
)

// GameConfig describes one exercise in the training catalog.
type GameConfig struct {
	ID                GameType              `json:"id" yaml:"id"`
	Name              string                `json:"name" yaml:"name"`
	Description       string                `json:"description" yaml:"description"`
	SupportedDiseases []ClinicalDiseaseType `json:"supported_diseases" yaml:"supported_diseases"`
	CognitiveDomain   string                `json:"cognitive_domain" yaml:"cognitive_domain"`
}

// GameSession is one completed training exercise.
type GameSession struct {
	ID               string              `json:"id,omitempty"`
	PatientID        string              `json:"patient_id,omitempty"`
	GameType         GameType            `json:"game_type"`
	Difficulty       GameDifficulty      `json:"difficulty"`
	Score            int                 `json:"score"`
	TimeTaken        int                 `json:"time_taken"`
	Accuracy         float64             `json:"accuracy"`
	DiseaseType      ClinicalDiseaseType `json:"disease_type,omitempty"`
	CognitiveDomain  string              `json:"cognitive_domain,omitempty"`
	FatigueReported  bool                `json:"fatigue_reported"`
	PerformanceTrend PerformanceTrend    `json:"performance_trend,omitempty"`
	SessionDate      time.Time           `json:"session_date"`
}

// Validate checks a session submitted by a client.
func (s *GameSession) Validate() []*ValidationError {
	var errs []*ValidationError
	if !s.GameType.IsValid() {
		errs = append(errs, NewValidationError("game_type", "unknown game", s.GameType))
	}
	if !s.Difficulty.IsValid() {
		errs = append(errs, NewValidationError("difficulty", "must be one of Easy, Medium, Hard", s.Difficulty))
	}
	if s.Score < 0 {
		errs = append(errs, NewValidationError("score", "must not be negative", s.Score))
	}
	if s.TimeTaken < 0 {
		errs = append(errs, NewValidationError("time_taken", "must not be negative", s.TimeTaken))
	}
	if s.Accuracy < 0 || s.Accuracy > 100 {
		errs = append(errs, NewValidationError("accuracy", "must be between 0 and 100", s.Accuracy))
	}
	if s.DiseaseType != "" && !s.DiseaseType.IsValid() {
		errs = append(errs, NewValidationError("disease_type", "unknown clinical disease type", s.DiseaseType))
	}
	return errs
}

// GameStats aggregates a patient's training history.
type GameStats struct {
	TotalSessions int `json:"total_sessions"`
	AverageScore  int `json:"average_score"`
	HighestScore  int `json:"highest_score"`
	Streak        int `json:"streak"`
}

// CheckinType marks whether a wellness check-in precedes or follows a session.
type CheckinType string

const (
	CheckinPreSession  CheckinType = "Pre-Session"
	CheckinPostSession CheckinType = "Post-Session"
)

// WellnessCheckin records how the patient feels around a training session.
type WellnessCheckin struct {
	ID           string      `json:"id,omitempty"`
	PatientID    string      `json:"patient_id,omitempty"`
	CheckinType  CheckinType `json:"checkin_type"`
	StressLevel  int         `json:"stress_level"`
	EnergyLevel  int         `json:"energy_level"`
	FeelingTired bool        `json:"feeling_tired"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Validate checks a check-in submitted by a client.
func (w *WellnessCheckin) Validate() []*ValidationError {
	var errs []*ValidationError
	if w.CheckinType != CheckinPreSession && w.CheckinType != CheckinPostSession {
		errs = append(errs, NewValidationError("checkin_type", "must be Pre-Session or Post-Session", w.CheckinType))
	}
	if w.StressLevel < 1 || w.StressLevel > 5 {
		errs = append(errs, NewValidationError("stress_level", "must be between 1 and 5", w.StressLevel))
	}
	if w.EnergyLevel < 1 || w.EnergyLevel > 5 {
		errs = append(errs, NewValidationError("energy_level", "must be between 1 and 5", w.EnergyLevel))
	}
	return errs
}
