package domain

import "time"

// Comment is a user-authored note attached to a task.
type Comment struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Content   string    `json:"content" bson:"content"`
	TaskID    string    `json:"task_id" bson:"task_id"`
	AuthorID  string    `json:"author_id" bson:"author_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
