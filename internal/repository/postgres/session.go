package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
)

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) ListByPatient(ctx context.Context, patientCode string) ([]*model.SessionRecord, error) {
	query := `
		SELECT * FROM therapy_sessions
		WHERE patient_code = $1
		ORDER BY session_date DESC NULLS LAST
	`
	sessions := []*model.SessionRecord{}
	if err := r.db.SelectContext(ctx, &sessions, query, patientCode); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (r *sessionRepository) CompletedScores(ctx context.Context, patientCode string) ([]float64, error) {
	query := `
		SELECT performance_score FROM therapy_sessions
		WHERE patient_code = $1
		  AND status = 'completed'
		  AND performance_score IS NOT NULL
		  AND session_date IS NOT NULL
		ORDER BY session_date ASC
	`
	scores := []float64{}
	if err := r.db.SelectContext(ctx, &scores, query, patientCode); err != nil {
		return nil, fmt.Errorf("failed to load session scores: %w", err)
	}
	return scores, nil
}

func (r *sessionRepository) CountCompletedSince(ctx context.Context, patientCode string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM therapy_sessions
		WHERE patient_code = $1 AND status = 'completed' AND session_date >= $2
	`
	var count int
	if err := r.db.GetContext(ctx, &count, query, patientCode, since); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}
