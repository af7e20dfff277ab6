package auth

import "context"

// IdentityStore persists user accounts.
type IdentityStore interface {
	CreateUser(ctx context.Context, u *User) error
	FindUserByID(ctx context.Context, id string) (*User, error)
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	// SetAdmin flips the stored cached flag. The write is idempotent:
	// concurrent corrections for the same user converge to the same state.
	SetAdmin(ctx context.Context, userID string, admin bool) error
}

// AdminRegistry is the authoritative admin-role registry. It is consulted
// live on every gated request; no process-wide cache sits in front of it.
type AdminRegistry interface {
	Contains(ctx context.Context, email string) (bool, error)
	Add(ctx context.Context, email string) (AdminRole, error)
	Remove(ctx context.Context, email string) error
	List(ctx context.Context) ([]AdminRole, error)
}
