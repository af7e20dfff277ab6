package auth

import (
	"context"
	"fmt"

	"beneficios.club/internal/obs"
)

// Verifier guarantees that privileged operations are only permitted to
// callers who are admins right now, not admins at token-issue time. The
// registry is consulted on every call; a cached flag that drifted positive
// is corrected in the identity store and the request is denied.
type Verifier struct {
	registry   AdminRegistry
	identities IdentityStore
}

// NewVerifier constructs a Verifier over the given registry and identity store.
func NewVerifier(registry AdminRegistry, identities IdentityStore) *Verifier {
	return &Verifier{registry: registry, identities: identities}
}

// Verify re-checks the caller's cached admin flag against the registry.
//
// It returns nil only when the flag is true AND the registry still contains
// the caller's email. A false cached flag is rejected without a lookup: a
// stale "not admin" only heals on the next full re-authentication. A
// registry lookup failure fails closed with ErrRegistryUnavailable.
func (v *Verifier) Verify(ctx context.Context, ident *Identity) error {
	if ident == nil {
		return ErrUnauthenticated
	}
	if !ident.CachedAdmin {
		return ErrForbidden
	}

	ok, err := v.registry.Contains(ctx, ident.Email)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRegistryUnavailable, err)
	}
	if ok {
		return nil
	}

	// Drift: the token says admin, the registry says no. Correct the stored
	// flag best-effort and deny the current request either way. Every later
	// request re-checks the registry, so a failed correction self-heals by
	// repetition.
	if err := v.identities.SetAdmin(ctx, ident.ID, false); err != nil {
		obs.LogError("admin drift correction failed", map[string]any{
			"user_id": ident.ID,
			"email":   ident.Email,
			"error":   err.Error(),
		})
	} else {
		obs.AdminDriftCorrected()
	}
	ident.CachedAdmin = false
	return ErrRevoked
}
