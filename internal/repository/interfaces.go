package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trialdash/patient-api/internal/model"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByCode(ctx context.Context, code string) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)

	GetMedicalInfo(ctx context.Context, patientID uuid.UUID) (*model.MedicalInfo, error)
	UpsertMedicalInfo(ctx context.Context, info *model.MedicalInfo) error

	// RefreshSessionCounters recomputes session_count and last_session
	// for every patient from the therapy_sessions table. Returns the
	// number of patients updated.
	RefreshSessionCounters(ctx context.Context) (int64, error)
}

type SessionRepository interface {
	ListByPatient(ctx context.Context, patientCode string) ([]*model.SessionRecord, error)

	// CompletedScores returns performance scores of completed sessions
	// in session-date order, oldest first. Sessions without a score are
	// skipped.
	CompletedScores(ctx context.Context, patientCode string) ([]float64, error)

	CountCompletedSince(ctx context.Context, patientCode string, since time.Time) (int, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *model.ClinicalNote) error
	Get(ctx context.Context, id uuid.UUID) (*model.ClinicalNote, error)
	Update(ctx context.Context, note *model.ClinicalNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, noteType model.NoteType, targetID string) ([]*model.ClinicalNote, error)
}
