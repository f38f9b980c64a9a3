package models

import "time"

// Task represents a single to-do item.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TaskUpdate lists the fields a client may change on an existing task.
// Nil fields are left untouched.
type TaskUpdate struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the update carries no field changes.
func (u TaskUpdate) IsEmpty() bool {
	return u.Text == nil && u.Completed == nil
}
