// Package store defines the persistence interfaces for users and notes.
// Two backends implement them: jsonfile (flat JSON array files, the
// default) and sqlite. Call sites never depend on a concrete backend.
package store

import (
	"errors"

	"github.com/dmaloney/flatnote/internal/model"
)

// ErrUsernameTaken is returned by UserStore.Create when the username
// already exists. Comparison is case-sensitive.
var ErrUsernameTaken = errors.New("username already taken")

// UserStore persists account records. Lookups that find nothing return
// (nil, nil); a non-nil error always means the store itself failed.
type UserStore interface {
	Create(username, passwordHash string) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	GetByID(id string) (*model.User, error)
}

// NoteStore persists note records. Every method that takes an ownerID is
// ownership-scoped: a note belonging to a different owner is treated the
// same as a note that does not exist.
type NoteStore interface {
	// ListByOwner returns the owner's notes ordered by descending
	// update time.
	ListByOwner(ownerID string) ([]model.Note, error)

	Create(ownerID, title, description string) (*model.Note, error)

	Get(ownerID, id string) (*model.Note, error)

	// Update applies only non-nil fields and refreshes the update
	// timestamp. Returns (nil, nil) if the note is missing or not owned.
	Update(ownerID, id string, title, description *string) (*model.Note, error)

	// Delete removes the note and returns its last state, or (nil, nil)
	// if it is missing or not owned.
	Delete(ownerID, id string) (*model.Note, error)
}
