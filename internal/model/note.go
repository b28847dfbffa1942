package model

type NoteType string

const (
	NoteTypePatient NoteType = "patient"
	NoteTypeSession NoteType = "session"
)

// ClinicalNote is a therapist-authored note attached to either a patient
// or a single session.
type ClinicalNote struct {
	Base
	NoteType NoteType `db:"note_type" json:"note_type"`
	TargetID string   `db:"target_id" json:"target_id"`
	Title    string   `db:"title" json:"title"`
	Content  string   `db:"content" json:"content"`
}

type CreateNoteRequest struct {
	NoteType NoteType `json:"note_type" binding:"required,oneof=patient session"`
	TargetID string   `json:"target_id" binding:"required"`
	Title    string   `json:"title" binding:"required,max=200"`
	Content  string   `json:"content"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content"`
}
