package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	Base
	PatientCode          string     `db:"patient_code" json:"patient_code"`
	FirstName            string     `db:"first_name" json:"first_name"`
	LastName             string     `db:"last_name" json:"last_name"`
	Active               bool       `db:"active" json:"active"`
	TherapistID          *uuid.UUID `db:"therapist_id" json:"therapist_id,omitempty"`
	TotalSessionsPlanned int        `db:"total_sessions_planned" json:"total_sessions_planned"`
	SessionCount         int        `db:"session_count" json:"session_count"`
	LastSession          *time.Time `db:"last_session" json:"last_session,omitempty"`
	TreatmentStart       *time.Time `db:"treatment_start" json:"treatment_start,omitempty"`

	// DateOfBirth is joined in from patient_medical_info by list
	// queries; it stays nil on rows fetched without the join.
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
}

// DisplayName is the name shown in patient tables. Patients registered
// without demographic data fall back to their code.
func (p *Patient) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.PatientCode
	}
	return name
}

// MedicalInfo holds the optional demographic and physical fields kept in
// the patient_medical_info table. Every field may be absent.
type MedicalInfo struct {
	PatientID       uuid.UUID  `db:"patient_id" json:"patient_id"`
	DateOfBirth     *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender          *string    `db:"gender" json:"gender,omitempty"`
	Room            *string    `db:"room" json:"room,omitempty"`
	Diagnosis       *string    `db:"diagnosis" json:"diagnosis,omitempty"`
	MobilityStatus  *string    `db:"mobility_status" json:"mobility_status,omitempty"`
	CognitiveStatus *string    `db:"cognitive_status" json:"cognitive_status,omitempty"`
	HeightCM        *float64   `db:"height_cm" json:"height_cm,omitempty"`
	WeightKG        *float64   `db:"weight_kg" json:"weight_kg,omitempty"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

type CreatePatientRequest struct {
	PatientCode          string     `json:"patient_code" binding:"required,patient_code"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	TherapistID          *uuid.UUID `json:"therapist_id"`
	TotalSessionsPlanned int        `json:"total_sessions_planned" binding:"gte=0"`
	TreatmentStart       *time.Time `json:"treatment_start"`
}

type UpdatePatientRequest struct {
	FirstName            *string    `json:"first_name"`
	LastName             *string    `json:"last_name"`
	TherapistID          *uuid.UUID `json:"therapist_id"`
	TotalSessionsPlanned *int       `json:"total_sessions_planned" binding:"omitempty,gte=0"`
	TreatmentStart       *time.Time `json:"treatment_start"`
	Active               *bool      `json:"active"`
}

type UpdateMedicalInfoRequest struct {
	DateOfBirth     *time.Time `json:"date_of_birth"`
	Gender          *string    `json:"gender"`
	Room            *string    `json:"room"`
	Diagnosis       *string    `json:"diagnosis"`
	MobilityStatus  *string    `json:"mobility_status"`
	CognitiveStatus *string    `json:"cognitive_status"`
	HeightCM        *float64   `json:"height_cm" binding:"omitempty,gt=0"`
	WeightKG        *float64   `json:"weight_kg" binding:"omitempty,gt=0"`
}

// PatientFilters narrows the patient list query.
type PatientFilters struct {
	TherapistID *uuid.UUID
}
