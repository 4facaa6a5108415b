package models

import "time"

// User is a credential store record. PasswordHash is a bcrypt hash and must
// never leave the server.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
