package domain

import (
	"context"
)

// AssessmentRepository persists intake records and their scored results.
type AssessmentRepository interface {
	SaveAssessment(ctx context.Context, assessment *Assessment) error
	GetAssessment(ctx context.Context, id string) (*Assessment, error)
	ListAssessments(ctx context.Context, patientID string, limit int) ([]*Assessment, error)
}

// PatientRepository manages patient profile rows.
type PatientRepository interface {
	UpsertPatient(ctx context.Context, patient *Patient) error
	GetPatient(ctx context.Context, id string) (*Patient, error)
}

// SimulationRepository persists saved treatment simulations.
type SimulationRepository interface {
	SaveSimulation(ctx context.Context, sim *TreatmentSimulation) error
	ListSimulations(ctx context.Context, patientID string, limit int) ([]*TreatmentSimulation, error)
}

// TrainingRepository persists cognitive-training sessions and wellness check-ins.
type TrainingRepository interface {
	SaveSession(ctx context.Context, session *GameSession) error
	ListSessions(ctx context.Context, patientID string, game GameType, limit int) ([]*GameSession, error)
	SaveCheckin(ctx context.Context, checkin *WellnessCheckin) error
	ListCheckins(ctx context.Context, patientID string, limit int) ([]*WellnessCheckin, error)
}

// ChatCompleter sends a single prompt to a text-completion endpoint.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	GetChatConfig() *ChatConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
