package model

import "time"

// User is a registered account. Password holds the bcrypt hash and is
// persisted to the backing store; handlers clear it before writing a
// response so the omitempty tag drops it from the wire.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
