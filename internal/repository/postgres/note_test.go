package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialdash/patient-api/internal/model"
	"github.com/trialdash/patient-api/internal/repository"
)

func noteColumns() []string {
	return []string{"id", "note_type", "target_id", "title", "content", "created_at", "updated_at"}
}

func TestNoteRepository_CreateAndGet(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNoteRepository(db)

	note := &model.ClinicalNote{
		Base:     model.Base{ID: uuid.New()},
		NoteType: model.NoteTypePatient,
		TargetID: "P001",
		Title:    "Fall risk",
		Content:  "Needs walker for transfers.",
	}

	mock.ExpectExec(`INSERT INTO clinical_notes`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), note))

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM clinical_notes WHERE id = \$1`).
		WithArgs(note.ID).
		WillReturnRows(sqlmock.NewRows(noteColumns()).
			AddRow(note.ID, "patient", "P001", "Fall risk", "Needs walker for transfers.", now, now))

	got, err := repo.Get(context.Background(), note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fall risk", got.Title)
	assert.Equal(t, model.NoteTypePatient, got.NoteType)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteRepository_Update_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNoteRepository(db)

	mock.ExpectExec(`UPDATE clinical_notes SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &model.ClinicalNote{
		Base: model.Base{ID: uuid.New()},
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNoteRepository_Delete_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNoteRepository(db)

	mock.ExpectExec(`DELETE FROM clinical_notes`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestNoteRepository_List(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNoteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(noteColumns()).
		AddRow(uuid.New(), "patient", "P001", "Newest", "b", now, now).
		AddRow(uuid.New(), "patient", "P001", "Oldest", "a", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery(`SELECT \* FROM clinical_notes`).
		WithArgs(model.NoteTypePatient, "P001").
		WillReturnRows(rows)

	notes, err := repo.List(context.Background(), model.NoteTypePatient, "P001")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Newest", notes[0].Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}
