package model

import "time"

// Task status values.
const (
	TaskPending    = "pending"
	TaskInProgress = "in_progress"
	TaskCompleted  = "completed"
	TaskFailed     = "failed"
)

// TaskStatuses lists every valid Task.Status in lifecycle order.
var TaskStatuses = []string{TaskPending, TaskInProgress, TaskCompleted, TaskFailed}

// Task is a unit of work, optionally attached to a project.
type Task struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	ProjectID   *string    `json:"project_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Model       *string    `json:"model,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
