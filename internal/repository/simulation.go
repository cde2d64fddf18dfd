package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
)

// SimulationRepository handles saved treatment simulations
type SimulationRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *pgxpool.Pool, logger *logrus.Logger) *SimulationRepository {
	return &SimulationRepository{
		db:  db,
		log: logger,
	}
}

// SaveSimulation inserts a simulation record
func (r *SimulationRepository) SaveSimulation(ctx context.Context, sim *domain.TreatmentSimulation) error {
	if sim.ID == "" {
		sim.ID = uuid.NewString()
	}
	sim.CreatedAt = time.Now().UTC()

	timeline, err := json.Marshal(sim.Timeline)
	if err != nil {
		return fmt.Errorf("marshaling timeline: %w", err)
	}
	sideEffects, err := json.Marshal(sim.SideEffects)
	if err != nil {
		return fmt.Errorf("marshaling side effects: %w", err)
	}
	plan, err := json.Marshal(sim.MonitoringPlan)
	if err != nil {
		return fmt.Errorf("marshaling monitoring plan: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO treatment_simulations (
			id, patient_id, disease, treatment_id, treatment_name, age, severity,
			comorbidities, current_medications, adjusted_efficacy,
			timeline, side_effects, monitoring_plan, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		sim.ID, sim.PatientID, sim.Disease, sim.TreatmentID, sim.TreatmentName, sim.Age,
		string(sim.Severity), sim.Comorbidities, sim.CurrentMedications, sim.AdjustedEfficacy,
		timeline, sideEffects, plan, sim.CreatedAt,
	)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"simulation_id": sim.ID,
			"treatment_id":  sim.TreatmentID,
			"error":         err,
		}).Error("Failed to create simulation")
		return fmt.Errorf("creating simulation: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"simulation_id": sim.ID,
		"treatment_id":  sim.TreatmentID,
		"patient_id":    sim.PatientID,
	}).Info("Simulation saved")
	return nil
}

// ListSimulations returns a patient's saved simulations, newest first
func (r *SimulationRepository) ListSimulations(ctx context.Context, patientID string, limit int) ([]*domain.TreatmentSimulation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id::text, patient_id, disease, treatment_id, treatment_name, age, severity,
			comorbidities, current_medications, adjusted_efficacy,
			timeline, side_effects, monitoring_plan, created_at
		FROM treatment_simulations
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing simulations: %w", err)
	}
	defer rows.Close()

	sims := []*domain.TreatmentSimulation{}
	for rows.Next() {
		var s domain.TreatmentSimulation
		var severity string
		var timeline, sideEffects, plan []byte
		err := rows.Scan(
			&s.ID, &s.PatientID, &s.Disease, &s.TreatmentID, &s.TreatmentName, &s.Age, &severity,
			&s.Comorbidities, &s.CurrentMedications, &s.AdjustedEfficacy,
			&timeline, &sideEffects, &plan, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning simulation row: %w", err)
		}
		s.Severity = domain.DiseaseSeverity(severity)
		if err := json.Unmarshal(timeline, &s.Timeline); err != nil {
			return nil, fmt.Errorf("unmarshaling timeline: %w", err)
		}
		if err := json.Unmarshal(sideEffects, &s.SideEffects); err != nil {
			return nil, fmt.Errorf("unmarshaling side effects: %w", err)
		}
		if err := json.Unmarshal(plan, &s.MonitoringPlan); err != nil {
			return nil, fmt.Errorf("unmarshaling monitoring plan: %w", err)
		}
		sims = append(sims, &s)
	}
	return sims, rows.Err()
}
