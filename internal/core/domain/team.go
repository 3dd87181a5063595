package domain

import "time"

// TeamRole is the role a member holds inside a team. The team owner is
// implicitly privileged even without a membership row.
type TeamRole string

const (
	TeamRoleMember  TeamRole = "member"
	TeamRoleManager TeamRole = "manager"
)

// Valid reports whether r is a member of the closed role enumeration.
func (r TeamRole) Valid() bool {
	return r == TeamRoleMember || r == TeamRoleManager
}

// Team groups users together; tasks may be scoped to a team.
type Team struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	OwnerID     string    `json:"owner_id" bson:"owner_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// TeamMember is the (team, user) association carrying a role.
type TeamMember struct {
	TeamID   string    `json:"team_id" bson:"team_id"`
	UserID   string    `json:"user_id" bson:"user_id"`
	Role     TeamRole  `json:"role" bson:"role"`
	JoinedAt time.Time `json:"joined_at" bson:"joined_at"`
}
