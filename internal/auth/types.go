package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. The IsAdmin column is the durable home of
// the cached privilege flag; the admin_roles registry stays authoritative.
type User struct {
	ID           string    `json:"id"`
	UID          uuid.UUID `json:"uid"`
	Email        string    `json:"email"`
	Nombre       string    `json:"nombre"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the per-request caller identity reconstructed from a bearer
// token. CachedAdmin is as-of token issue time and may have drifted from
// the registry; the Verifier is the only component allowed to correct it.
type Identity struct {
	ID          string
	Email       string
	Name        string
	CachedAdmin bool
}

// AdminRole is one row of the admin-role registry. Row existence for an
// email is the sole source of truth for admin privilege.
type AdminRole struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
