package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dmaloney/flatnote/internal/model"
	"github.com/dmaloney/flatnote/internal/store"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

func scanNote(scanner interface{ Scan(...any) error }) (*model.Note, error) {
	var n model.Note
	err := scanner.Scan(&n.ID, &n.Owner, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

const noteCols = `id, owner, title, description, created_at, updated_at`

func (s *NoteStore) ListByOwner(ownerID string) ([]model.Note, error) {
	rows, err := s.db.Query(
		`SELECT `+noteCols+` FROM notes WHERE owner = ? ORDER BY updated_at DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []model.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}

func (s *NoteStore) Create(ownerID, title, description string) (*model.Note, error) {
	now := time.Now().UTC()
	note := model.Note{
		ID:          store.NewNoteID(),
		Owner:       ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.Exec(
		`INSERT INTO notes (`+noteCols+`) VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.Owner, note.Title, note.Description, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return &note, nil
}

// Get is ownership-scoped: the owner predicate is part of the query, so a
// foreign note scans as no rows.
func (s *NoteStore) Get(ownerID, id string) (*model.Note, error) {
	row := s.db.QueryRow(
		`SELECT `+noteCols+` FROM notes WHERE owner = ? AND id = ?`,
		ownerID, id,
	)
	n, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return n, nil
}

func (s *NoteStore) Update(ownerID, id string, title, description *string) (*model.Note, error) {
	existing, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if title != nil {
		existing.Title = *title
	}
	if description != nil {
		existing.Description = *description
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(
		`UPDATE notes SET title = ?, description = ?, updated_at = ? WHERE owner = ? AND id = ?`,
		existing.Title, existing.Description, existing.UpdatedAt, ownerID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return existing, nil
}

func (s *NoteStore) Delete(ownerID, id string) (*model.Note, error) {
	existing, err := s.Get(ownerID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	_, err = s.db.Exec(`DELETE FROM notes WHERE owner = ? AND id = ?`, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("delete note: %w", err)
	}
	return existing, nil
}
