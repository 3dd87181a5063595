package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	Username     string    `json:"username" bson:"username"`
	FullName     string    `json:"full_name,omitempty" bson:"full_name,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Role         string    `json:"role" bson:"role"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor is the authenticated identity performing a request, as established
// by the credential boundary. Read-only to the core services.
type Actor struct {
	ID       string
	Username string
	Role     string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
