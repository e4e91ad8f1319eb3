package jsonfile

import (
	"sort"
	"time"

	"github.com/dmaloney/flatnote/internal/model"
	"github.com/dmaloney/flatnote/internal/store"
)

const notesFile = "notes.json"

type NoteStore struct {
	col *collection[model.Note]
}

func NewNoteStore(dataDir string) *NoteStore {
	return &NoteStore{col: newCollection[model.Note](dataDir, notesFile)}
}

// ListByOwner returns the owner's notes, newest update first.
func (s *NoteStore) ListByOwner(ownerID string) ([]model.Note, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	notes, err := s.col.load()
	if err != nil {
		return nil, err
	}

	var owned []model.Note
	for _, n := range notes {
		if n.Owner == ownerID {
			owned = append(owned, n)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].UpdatedAt.After(owned[j].UpdatedAt)
	})
	return owned, nil
}

func (s *NoteStore) Create(ownerID, title, description string) (*model.Note, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	notes, err := s.col.load()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	note := model.Note{
		ID:          store.NewNoteID(),
		Owner:       ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	notes = append(notes, note)

	if err := s.col.save(notes); err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *NoteStore) Get(ownerID, id string) (*model.Note, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	notes, err := s.col.load()
	if err != nil {
		return nil, err
	}
	if i := findOwned(notes, ownerID, id); i >= 0 {
		return &notes[i], nil
	}
	return nil, nil
}

func (s *NoteStore) Update(ownerID, id string, title, description *string) (*model.Note, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	notes, err := s.col.load()
	if err != nil {
		return nil, err
	}
	i := findOwned(notes, ownerID, id)
	if i < 0 {
		return nil, nil
	}

	if title != nil {
		notes[i].Title = *title
	}
	if description != nil {
		notes[i].Description = *description
	}
	notes[i].UpdatedAt = time.Now().UTC()

	if err := s.col.save(notes); err != nil {
		return nil, err
	}
	note := notes[i]
	return &note, nil
}

func (s *NoteStore) Delete(ownerID, id string) (*model.Note, error) {
	s.col.mu.Lock()
	defer s.col.mu.Unlock()

	notes, err := s.col.load()
	if err != nil {
		return nil, err
	}
	i := findOwned(notes, ownerID, id)
	if i < 0 {
		return nil, nil
	}

	deleted := notes[i]
	notes = append(notes[:i], notes[i+1:]...)

	if err := s.col.save(notes); err != nil {
		return nil, err
	}
	return &deleted, nil
}

// findOwned locates a note by id within the owner's subset. The owner
// check comes first so a foreign note and a missing note are
// indistinguishable to the caller.
func findOwned(notes []model.Note, ownerID, id string) int {
	for i := range notes {
		if notes[i].Owner == ownerID && notes[i].ID == id {
			return i
		}
	}
	return -1
}
