package domain

import "time"

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is a member of the closed status enumeration.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// TaskPriority represents the urgency class of a task.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// Valid reports whether p is a member of the closed priority enumeration.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task is the central aggregate of the system. OwnerID is the creator;
// AssignedToID and TeamID are optional and drive the visibility rules.
type Task struct {
	ID           string       `json:"id" bson:"_id,omitempty"`
	Title        string       `json:"title" bson:"title"`
	Description  string       `json:"description,omitempty" bson:"description,omitempty"`
	Status       TaskStatus   `json:"status" bson:"status"`
	Priority     TaskPriority `json:"priority" bson:"priority"`
	DueDate      *time.Time   `json:"due_date,omitempty" bson:"due_date,omitempty"`
	OwnerID      string       `json:"owner_id" bson:"owner_id"`
	AssignedToID string       `json:"assigned_to_id,omitempty" bson:"assigned_to_id,omitempty"`
	TeamID       string       `json:"team_id,omitempty" bson:"team_id,omitempty"`
	Tags         []string     `json:"tags,omitempty" bson:"tags,omitempty"`
	IsArchived   bool         `json:"is_archived" bson:"is_archived"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}
