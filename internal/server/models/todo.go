package models

import "time"

// Todo is a task record owned by exactly one user. Every query that touches
// todos filters by OwnerID.
type Todo struct {
	ID          int64
	OwnerID     int64
	Title       string
	Description string
	DueDate     time.Time
	Completed   bool
}

// TodoUpdate carries a partial update; nil fields are left unchanged.
type TodoUpdate struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
}
