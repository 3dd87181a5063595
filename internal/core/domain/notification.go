package domain

import "time"

// NotificationType is the closed enumeration of notification categories.
type NotificationType string

const (
	NotificationTaskAssigned  NotificationType = "task_assigned"
	NotificationTaskUpdated   NotificationType = "task_updated"
	NotificationTaskCompleted NotificationType = "task_completed"
	NotificationCommentAdded  NotificationType = "comment_added"
	NotificationTeamInvite    NotificationType = "team_invite"
	NotificationTeamRemoved   NotificationType = "team_removed"
	NotificationSystem        NotificationType = "system"
)

// Valid reports whether t is a member of the closed type enumeration.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTaskAssigned, NotificationTaskUpdated, NotificationTaskCompleted,
		NotificationCommentAdded, NotificationTeamInvite, NotificationTeamRemoved,
		NotificationSystem:
		return true
	}
	return false
}

// Notification is an at-rest record of a push message. Persisted before any
// delivery attempt so a disconnected user can retrieve it later.
type Notification struct {
	ID          string           `json:"id" bson:"_id,omitempty"`
	UserID      string           `json:"user_id" bson:"user_id"`
	Message     string           `json:"message" bson:"message"`
	Type        NotificationType `json:"type" bson:"type"`
	ReferenceID string           `json:"reference_id,omitempty" bson:"reference_id,omitempty"`
	IsRead      bool             `json:"is_read" bson:"is_read"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
}
