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

type noteRepository struct {
	db *sqlx.DB
}

func NewNoteRepository(db *sqlx.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *model.ClinicalNote) error {
	query := `
		INSERT INTO clinical_notes (id, note_type, target_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	note.CreatedAt = time.Now()
	note.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		note.ID,
		note.NoteType,
		note.TargetID,
		note.Title,
		note.Content,
		note.CreatedAt,
		note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *noteRepository) Get(ctx context.Context, id uuid.UUID) (*model.ClinicalNote, error) {
	query := `SELECT * FROM clinical_notes WHERE id = $1`
	var note model.ClinicalNote
	err := r.db.GetContext(ctx, &note, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

func (r *noteRepository) Update(ctx context.Context, note *model.ClinicalNote) error {
	query := `UPDATE clinical_notes SET title = $1, content = $2, updated_at = $3 WHERE id = $4`
	note.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, query, note.Title, note.Content, note.UpdatedAt, note.ID)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clinical_notes WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *noteRepository) List(ctx context.Context, noteType model.NoteType, targetID string) ([]*model.ClinicalNote, error) {
	query := `
		SELECT * FROM clinical_notes
		WHERE note_type = $1 AND target_id = $2
		ORDER BY created_at DESC
	`
	notes := []*model.ClinicalNote{}
	if err := r.db.SelectContext(ctx, &notes, query, noteType, targetID); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}
