package models

import (
	"database/sql"
	"time"
)

// Task is the persistence shape of a task row.
type Task struct {
	TaskID      string       `db:"task_id"`
	OwnerID     string       `db:"owner_id"`
	Title       string       `db:"title"`
	Description string       `db:"description"`
	Status      string       `db:"status"`
	Priority    string       `db:"priority"`
	DueDate     sql.NullTime `db:"due_date"`
	CreatedAt   time.Time    `db:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at"`
}
