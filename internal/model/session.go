package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusCompleted    SessionStatus = "completed"
	SessionStatusProcessing   SessionStatus = "processing"
	SessionStatusFailed       SessionStatus = "failed"
	SessionStatusNotProcessed SessionStatus = "not_processed"
)

// SessionRecord is a processed therapy session row. Records are written
// by the external ingestion pipeline; this service only reads them.
type SessionRecord struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PatientCode      string     `db:"patient_code" json:"patient_code"`
	FileKey          string     `db:"file_key" json:"file_key"`
	SessionDate      *time.Time `db:"session_date" json:"session_date,omitempty"`
	Status           SessionStatus `db:"status" json:"status"`
	PerformanceScore *float64   `db:"performance_score" json:"performance_score,omitempty"`
	ContractionCount *int       `db:"contraction_count" json:"contraction_count,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
}

// SessionRow is one entry in the patient session browser: a stored
// recording file joined with whatever processing output exists for it.
// Score and contraction count stay nil when the pipeline has produced
// nothing, so the client can render an explicit "no data" marker.
type SessionRow struct {
	FileKey          string        `json:"file_key"`
	PatientCode      string        `json:"patient_code"`
	SessionDate      *time.Time    `json:"session_date,omitempty"`
	Status           SessionStatus `json:"status"`
	PerformanceScore *float64      `json:"performance_score,omitempty"`
	ContractionCount *int          `json:"contraction_count,omitempty"`
}

// SessionPage is a fixed-size page of session rows.
type SessionPage struct {
	Rows     []SessionRow `json:"rows"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Total    int          `json:"total"`
}
