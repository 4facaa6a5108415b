// Package models defines client-side data models used by the TaskKeeper CLI.
package models

import "time"

// Identity is the server-verified projection shown in the prompt.
type Identity struct {
	UserID string
	Email  string
}

// Valid reports whether the identity names a user.
func (i Identity) Valid() bool {
	return i.UserID != ""
}

// Session is what the client caches between runs. It is only a hint:
// a cached session is re-verified with the server before use.
type Session struct {
	Token     string
	Identity  Identity
	ExpiresAt time.Time
}

// User is the account record returned on signup.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
}

// Task mirrors the server's task resource.
type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries the fields of a partial update. Nil fields are omitted
// from the request.
type TaskPatch struct {
	Title       *string
	Description *string
}
