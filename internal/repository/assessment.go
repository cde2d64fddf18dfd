// Package repository implements the PostgreSQL persistence used by the API
// server on top of a pgx connection pool.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/cognisphere-server/internal/domain"
)

// AssessmentRepository handles assessment and risk result persistence
type AssessmentRepository struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewAssessmentRepository creates a new assessment repository
func NewAssessmentRepository(db *pgxpool.Pool, logger *logrus.Logger) *AssessmentRepository {
	return &AssessmentRepository{
		db:  db,
		log: logger,
	}
}

// nullable maps an empty id onto SQL NULL.
func nullable(id string) any {
	if id == "" {
		return nil
	}
	return id
}

// SaveAssessment stores the intake and its four results in one transaction.
// Missing ids and timestamps are filled in.
func (r *AssessmentRepository) SaveAssessment(ctx context.Context, a *domain.Assessment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if a.AssessmentDate.IsZero() {
		a.AssessmentDate = now
	}
	a.CreatedAt = now

	intakeJSON, err := json.Marshal(a.Intake)
	if err != nil {
		return fmt.Errorf("marshaling intake: %w", err)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if a.PatientID != "" {
		_, err = tx.Exec(ctx, `
			INSERT INTO patients (id, age, gender)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET
				age = EXCLUDED.age, gender = EXCLUDED.gender, updated_at = NOW()`,
			a.PatientID, a.Intake.Age, string(a.Intake.Gender))
		if err != nil {
			return fmt.Errorf("upserting patient: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO risk_assessments (
			id, patient_id, assessment_date, age, gender, intake, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, nullable(a.PatientID), a.AssessmentDate, a.Intake.Age, string(a.Intake.Gender), intakeJSON, a.CreatedAt)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"assessment_id": a.ID,
			"error":         err,
		}).Error("Failed to create assessment")
		return fmt.Errorf("creating assessment: %w", err)
	}

	if a.Results != nil {
		batch := &pgx.Batch{}
		for _, res := range a.Results.All() {
			factors, err := json.Marshal(res.RiskFactors)
			if err != nil {
				return fmt.Errorf("marshaling risk factors: %w", err)
			}
			recs, err := json.Marshal(res.Recommendations)
			if err != nil {
				return fmt.Errorf("marshaling recommendations: %w", err)
			}
			batch.Queue(`
				INSERT INTO risk_results (
					assessment_id, disease, risk_level, probability, confidence,
					risk_factors, recommendations
				) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				a.ID, string(res.Disease), string(res.RiskLevel), res.Probability, res.Confidence, factors, recs)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("creating risk results: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing assessment: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"assessment_id": a.ID,
		"patient_id":    a.PatientID,
	}).Info("Assessment created successfully")

	return nil
}

const assessmentColumns = `id::text, COALESCE(patient_id, ''), assessment_date, intake, created_at`

func scanAssessment(row pgx.Row) (*domain.Assessment, error) {
	var a domain.Assessment
	var intakeJSON []byte
	if err := row.Scan(&a.ID, &a.PatientID, &a.AssessmentDate, &intakeJSON, &a.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(intakeJSON, &a.Intake); err != nil {
		return nil, fmt.Errorf("unmarshaling intake: %w", err)
	}
	a.Results = &domain.RiskResults{}
	return &a, nil
}

// GetAssessment retrieves an assessment together with its results
func (r *AssessmentRepository) GetAssessment(ctx context.Context, id string) (*domain.Assessment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
	}

	a, err := scanAssessment(r.db.QueryRow(ctx,
		`SELECT `+assessmentColumns+` FROM risk_assessments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("assessment not found: %w", domain.ErrNotFound)
		}
		r.log.WithFields(logrus.Fields{
			"assessment_id": id,
			"error":         err,
		}).Error("Failed to get assessment")
		return nil, fmt.Errorf("getting assessment: %w", err)
	}

	if err := r.loadResults(ctx, map[string]*domain.Assessment{a.ID: a}); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAssessments returns a patient's assessments, newest first
func (r *AssessmentRepository) ListAssessments(ctx context.Context, patientID string, limit int) ([]*domain.Assessment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+assessmentColumns+`
		FROM risk_assessments
		WHERE patient_id = $1
		ORDER BY assessment_date DESC
		LIMIT $2`, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("listing assessments: %w", err)
	}
	defer rows.Close()

	assessments := []*domain.Assessment{}
	byID := map[string]*domain.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning assessment row: %w", err)
		}
		assessments = append(assessments, a)
		byID[a.ID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assessment rows: %w", err)
	}

	if len(byID) > 0 {
		if err := r.loadResults(ctx, byID); err != nil {
			return nil, err
		}
	}
	return assessments, nil
}

func (r *AssessmentRepository) loadResults(ctx context.Context, byID map[string]*domain.Assessment) error {
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	rows, err := r.db.Query(ctx, `
		SELECT assessment_id::text, disease, risk_level, probability, confidence,
			risk_factors, recommendations
		FROM risk_results
		WHERE assessment_id::text = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("loading risk results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var assessmentID, disease, level string
		var res domain.DiseaseRiskResult
		var factors, recs []byte
		if err := rows.Scan(&assessmentID, &disease, &level, &res.Probability, &res.Confidence, &factors, &recs); err != nil {
			return fmt.Errorf("scanning risk result: %w", err)
		}
		res.Disease = domain.Disease(disease)
		res.RiskLevel = domain.RiskLevel(level)
		if err := json.Unmarshal(factors, &res.RiskFactors); err != nil {
			return fmt.Errorf("unmarshaling risk factors: %w", err)
		}
		if err := json.Unmarshal(recs, &res.Recommendations); err != nil {
			return fmt.Errorf("unmarshaling recommendations: %w", err)
		}
		if a, ok := byID[assessmentID]; ok {
			a.Results.Set(res)
		}
	}
	return rows.Err()
}
