package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskmasterhq/taskmaster-api/internal/core/domain"
	"github.com/taskmasterhq/taskmaster-api/internal/core/ports"
)

// RefreshTokenStore abstracts the rotation/revocation store (Redis). Only a
// hash of the refresh token is persisted, keyed by user.
type RefreshTokenStore interface {
	Save(ctx context.Context, userID, tokenHash string, ttl time.Duration) error
	Matches(ctx context.Context, userID, tokenHash string) (bool, error)
	Revoke(ctx context.Context, userID string) error
}

// AuthService implements registration, login, refresh rotation, and logout.
type AuthService struct {
	repo          ports.UserRepository
	tokens        RefreshTokenStore
	activity      ActivityRecorder
	jwtSecret     string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	log           zerolog.Logger
}

func NewAuthService(
	repo ports.UserRepository,
	tokens RefreshTokenStore,
	activity ActivityRecorder,
	jwtSecret, refreshSecret string,
	accessTTL, refreshTTL time.Duration,
	log zerolog.Logger,
) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 30 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		repo:          repo,
		tokens:        tokens,
		activity:      activity,
		jwtSecret:     jwtSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		log:           log,
	}
}

// Register creates a new active user account with the default role.
func (s *AuthService) Register(ctx context.Context, email, username, password, fullName string) (*domain.User, error) {
	if email == "" || username == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		Username:     username,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     created.ID,
		Action:     "user_registered",
		EntityType: "user",
		EntityID:   created.ID,
		Meta:       map[string]any{"email": created.Email, "username": created.Username},
	})

	return created, nil
}

// Login verifies credentials and issues an access + refresh pair. The
// refresh token's hash is stored for later rotation/revocation. Inactive
// accounts cannot log in.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.TokenPair, *domain.User, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, domain.ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.activity.Record(&domain.ActivityEntry{
		UserID:     user.ID,
		Action:     "user_login",
		EntityType: "user",
		EntityID:   user.ID,
	})

	return pair, user, nil
}

// Refresh rotates a refresh token: the presented token must be a valid
// refresh JWT whose hash matches the stored one. A new pair is issued and
// replaces the old hash, invalidating the presented token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	userID, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	ok, err := s.tokens.Matches(ctx, userID, hashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("refresh: token store: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	return s.issuePair(ctx, user)
}

// Logout revokes the actor's stored refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	userID, err := s.parseRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return s.tokens.Revoke(ctx, userID)
}

// Validate decodes an access token and returns the actor it encodes.
// Satisfies ports.CredentialValidator for the websocket boundary.
func (s *AuthService) Validate(token string) (domain.Actor, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return domain.Actor{}, domain.ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != "access" {
		return domain.Actor{}, domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return domain.Actor{}, domain.ErrInvalidToken
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	return domain.Actor{ID: sub, Username: username, Role: role}, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *domain.User) (*ports.TokenPair, error) {
	access, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, user.ID, hashToken(refresh), s.refreshTTL); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     user.Role,
		"type":     "access",
		"iat":      now.Unix(),
		"exp":      now.Add(s.accessTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) generateRefreshToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"type": "refresh",
		"iat":  now.Unix(),
		"exp":  now.Add(s.refreshTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.refreshSecret))
}

func (s *AuthService) parseRefreshToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.refreshSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}
	if typ, _ := claims["type"].(string); typ != "refresh" {
		return "", domain.ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrInvalidToken
	}
	return sub, nil
}

// hashToken returns a SHA-256 hex digest of a token for safe storage.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// validatePasswordStrength enforces the password policy: at least 8
// characters, one uppercase letter, and one digit.
func validatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters long", domain.ErrWeakPassword)
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("%w: must contain at least one uppercase letter", domain.ErrWeakPassword)
	}
	if !hasDigit {
		return fmt.Errorf("%w: must contain at least one digit", domain.ErrWeakPassword)
	}
	return nil
}
