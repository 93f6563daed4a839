package models

import (
	"time"

	"github.com/google/uuid"
)

// Task is one entry in a user's task list
type Task struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskCreate is the request body for creating a task
type TaskCreate struct {
	Title  string `json:"title"`
	UserID string `json:"user_id"`
}

// TaskUpdate is the request body for updating a task. A nil Completed means
// toggle the current value.
type TaskUpdate struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}
