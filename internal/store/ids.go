package store

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewUserID returns a UUID string for a new account record.
func NewUserID() string {
	return uuid.NewString()
}

// NewNoteID returns 32 random bytes hex encoded. Note ids are shared in
// URLs, so they carry more entropy than user ids.
func NewNoteID() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
