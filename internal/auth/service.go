package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"beneficios.club/internal/ids"
)

const defaultTokenTTL = 8 * time.Hour

// Service handles registration and login, acting as the identity provider
// for the rest of the API.
type Service struct {
	identities IdentityStore
	tokenTTL   time.Duration
}

// NewService constructs the identity service. A non-positive ttl falls back
// to the default token lifetime.
func NewService(identities IdentityStore, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = defaultTokenTTL
	}
	return &Service{identities: identities, tokenTTL: tokenTTL}
}

// Register creates a non-admin account. Admin privilege is only ever granted
// by inserting the email into the admin-role registry.
func (s *Service) Register(ctx context.Context, email, nombre, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return nil, fmt.Errorf("%w: nombre is required", ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           ids.New(),
		Email:        email,
		Nombre:       nombre,
		PasswordHash: hash,
	}
	if err := s.identities.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token whose admin claim is
// sampled from the user row at issue time.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, *User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}
	user, err := s.identities.FindUserByEmail(ctx, email)
	if err != nil {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, nil, ErrInvalidCredentials
	}

	token, expiresAt, err := GenerateToken(user, s.tokenTTL)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, expiresAt, user, nil
}
