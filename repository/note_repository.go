// file: repository/note_repository.go

package repository

import (
	"database/sql"
	"go-notes-api/model"
)

// INoteRepository defines the contract for note database operations.
type INoteRepository interface {
	CreateNote(note *model.Note) error
	GetNotesByOwnerID(ownerID int) ([]*model.Note, error)
	GetNoteByID(id int) (*model.Note, error)
	DeleteNote(id int) error
}

// NoteRepository implements INoteRepository.
type NoteRepository struct {
	DB *sql.DB
}

func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) CreateNote(note *model.Note) error {
	query := `INSERT INTO notes (owner_id, title, content, color) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	return r.DB.QueryRow(query, note.OwnerID, note.Title, note.Content, note.Color).Scan(&note.ID, &note.CreatedAt)
}

func (r *NoteRepository) GetNotesByOwnerID(ownerID int) ([]*model.Note, error) {
	query := `SELECT id, owner_id, title, content, color, created_at FROM notes WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.DB.Query(query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*model.Note{}
	for rows.Next() {
		note := &model.Note{}
		if err := rows.Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.Color, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *NoteRepository) GetNoteByID(id int) (*model.Note, error) {
	note := &model.Note{}
	query := `SELECT id, owner_id, title, content, color, created_at FROM notes WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&note.ID, &note.OwnerID, &note.Title, &note.Content, &note.Color, &note.CreatedAt)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (r *NoteRepository) DeleteNote(id int) error {
	query := `DELETE FROM notes WHERE id = $1`
	_, err := r.DB.Exec(query, id)
	return err
}
