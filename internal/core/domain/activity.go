package domain

import "time"

// ActivityEntry is an immutable audit record of a significant action.
type ActivityEntry struct {
	ID         string         `json:"id" bson:"_id,omitempty"`
	UserID     string         `json:"user_id" bson:"user_id"`
	Action     string         `json:"action" bson:"action"`
	EntityType string         `json:"entity_type" bson:"entity_type"`
	EntityID   string         `json:"entity_id" bson:"entity_id"`
	Meta       map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}
