package note

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
	apperrors "github.com/trialdash/patient-api/pkg/errors"
)

type Service struct {
	repo repository.NoteRepository
}

func NewService(repo repository.NoteRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateNote(ctx context.Context, req *model.CreateNoteRequest) (*model.ClinicalNote, error) {
	note := &model.ClinicalNote{
		Base: model.Base{
			ID: uuid.New(),
		},
		NoteType: req.NoteType,
		TargetID: req.TargetID,
		Title:    req.Title,
		Content:  req.Content,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create note: %w", err))
	}
	return note, nil
}

func (s *Service) GetNote(ctx context.Context, id uuid.UUID) (*model.ClinicalNote, error) {
	note, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("note", err)
	}
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to get note: %w", err))
	}
	return note, nil
}

func (s *Service) UpdateNote(ctx context.Context, id uuid.UUID, req *model.UpdateNoteRequest) (*model.ClinicalNote, error) {
	note, err := s.GetNote(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		note.Title = *req.Title
	}
	if req.Content != nil {
		note.Content = *req.Content
	}

	if err := s.repo.Update(ctx, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("note", err)
		}
		return nil, apperrors.Internal(fmt.Errorf("failed to update note: %w", err))
	}
	return note, nil
}

func (s *Service) DeleteNote(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("note", err)
	}
	if err != nil {
		return apperrors.Internal(fmt.Errorf("failed to delete note: %w", err))
	}
	return nil
}

// ListNotes returns the notes for one target, newest first. The client
// reloads this list after every mutation rather than patching it.
func (s *Service) ListNotes(ctx context.Context, noteType model.NoteType, targetID string) ([]*model.ClinicalNote, error) {
	if noteType != model.NoteTypePatient && noteType != model.NoteTypeSession {
		return nil, apperrors.BadRequest("invalid note type", nil)
	}

	notes, err := s.repo.List(ctx, noteType, targetID)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list notes: %w", err))
	}
	return notes, nil
}
