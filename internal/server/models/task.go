package models

import "time"

// Task is the protected resource. OwnerID is fixed at creation.
type Task struct {
	ID          int64
	OwnerID     string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch lists the fields supplied by a partial update. A nil field is
// left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
}

// Empty reports whether the patch carries no fields.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil
}
