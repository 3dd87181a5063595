package ports

import (
	"context"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
)

// TokenPair is an access + refresh token couple issued on login or rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService handles registration, login, token rotation, and logout.
type AuthService interface {
	Register(ctx context.Context, email, username, password, fullName string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, *domain.User, error)
	// Refresh rotates a refresh token: the presented token must match the
	// stored hash, a new pair is issued, and the old token is invalidated.
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// CredentialValidator validates a bearer token out-of-band of the HTTP
// middleware (the websocket boundary passes tokens as query parameters).
type CredentialValidator interface {
	// Validate returns the actor encoded in the token, or
	// domain.ErrInvalidToken when the token is malformed or expired.
	Validate(token string) (domain.Actor, error)
}
