package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
)

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (id, patient_code, first_name, last_name, active, therapist_id,
			total_sessions_planned, session_count, last_session, treatment_start, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.PatientCode,
		patient.FirstName,
		patient.LastName,
		patient.Active,
		patient.TherapistID,
		patient.TotalSessionsPlanned,
		patient.SessionCount,
		patient.LastSession,
		patient.TreatmentStart,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByCode(ctx context.Context, code string) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE patient_code = $1`
	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by code: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, therapist_id = $3, total_sessions_planned = $4,
			treatment_start = $5, active = $6, updated_at = $7
		WHERE id = $8
	`
	patient.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.TherapistID,
		patient.TotalSessionsPlanned,
		patient.TreatmentStart,
		patient.Active,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return nil
}

func (r *patientRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE patients SET active = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, active, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set patient active flag: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `
		SELECT p.*, m.date_of_birth
		FROM patients p
		LEFT JOIN patient_medical_info m ON m.patient_id = p.id
	`
	args := []interface{}{}
	if filters != nil && filters.TherapistID != nil {
		query += ` WHERE p.therapist_id = $1`
		args = append(args, *filters.TherapistID)
	}
	query += ` ORDER BY p.patient_code`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) GetMedicalInfo(ctx context.Context, patientID uuid.UUID) (*model.MedicalInfo, error) {
	query := `SELECT * FROM patient_medical_info WHERE patient_id = $1`
	var info model.MedicalInfo
	err := r.db.GetContext(ctx, &info, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medical info: %w", err)
	}
	return &info, nil
}

func (r *patientRepository) UpsertMedicalInfo(ctx context.Context, info *model.MedicalInfo) error {
	query := `
		INSERT INTO patient_medical_info (patient_id, date_of_birth, gender, room, diagnosis,
			mobility_status, cognitive_status, height_cm, weight_kg, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (patient_id) DO UPDATE SET
			date_of_birth = EXCLUDED.date_of_birth,
			gender = EXCLUDED.gender,
			room = EXCLUDED.room,
			diagnosis = EXCLUDED.diagnosis,
			mobility_status = EXCLUDED.mobility_status,
			cognitive_status = EXCLUDED.cognitive_status,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			updated_at = EXCLUDED.updated_at
	`
	info.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		info.PatientID,
		info.DateOfBirth,
		info.Gender,
		info.Room,
		info.Diagnosis,
		info.MobilityStatus,
		info.CognitiveStatus,
		info.HeightCM,
		info.WeightKG,
		info.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert medical info: %w", err)
	}
	return nil
}

func (r *patientRepository) RefreshSessionCounters(ctx context.Context) (int64, error) {
	query := `
		UPDATE patients p
		SET session_count = s.cnt, last_session = s.last, updated_at = NOW()
		FROM (
			SELECT patient_code, COUNT(*) AS cnt, MAX(session_date) AS last
			FROM therapy_sessions
			WHERE status = 'completed'
			GROUP BY patient_code
		) s
		WHERE p.patient_code = s.patient_code
		  AND (p.session_count <> s.cnt OR p.last_session IS DISTINCT FROM s.last)
	`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh session counters: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count refreshed rows: %w", err)
	}
	return rows, nil
}
