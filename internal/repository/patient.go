package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
)

// PatientRepository handles patient profile persistence
type PatientRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewPatientRepository creates a new patient repository
func NewPatientRepository(db *pgxpool.Pool, logger *logrus.Logger) *PatientRepository {
	return &PatientRepository{
		db:  db,
		log: logger,
	}
}

// UpsertPatient creates the patient or refreshes its profile fields
func (r *PatientRepository) UpsertPatient(ctx context.Context, p *domain.Patient) error {
	if p.ID == "" {
		return fmt.Errorf("patient id is required: %w", domain.ErrInvalidInput)
	}

	err := r.db.QueryRow(ctx, `
		INSERT INTO patients (id, email, name, age, gender)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			updated_at = NOW()
		RETURNING created_at`,
		p.ID, p.Email, p.Name, p.Age, p.Gender,
	).Scan(&p.CreatedAt)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"patient_id": p.ID,
			"error":      err,
		}).Error("Failed to upsert patient")
		return fmt.Errorf("upserting patient: %w", err)
	}
	return nil
}

// GetPatient retrieves a patient by id
func (r *PatientRepository) GetPatient(ctx context.Context, id string) (*domain.Patient, error) {
	var p domain.Patient
	err := r.db.QueryRow(ctx, `
		SELECT id, email, name, age, gender, created_at
		FROM patients WHERE id = $1`, id,
	).Scan(&p.ID, &p.Email, &p.Name, &p.Age, &p.Gender, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("patient not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting patient: %w", err)
	}
	return &p, nil
}
