package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type failingRegistry struct{ err error }

func (f failingRegistry) Contains(ctx context.Context, email string) (bool, error) {
	return false, f.err
}
func (f failingRegistry) Add(ctx context.Context, email string) (AdminRole, error) {
	return AdminRole{}, f.err
}
func (f failingRegistry) Remove(ctx context.Context, email string) error { return f.err }
func (f failingRegistry) List(ctx context.Context) ([]AdminRole, error)  { return nil, f.err }

type brokenIdentityStore struct {
	IdentityStore
	setAdminErr error
}

func (b brokenIdentityStore) SetAdmin(ctx context.Context, userID string, admin bool) error {
	return b.setAdminErr
}

func seedVerifier(t *testing.T) (*Verifier, *InMemoryIdentityStore, *InMemoryRegistry, *Identity) {
	t.Helper()
	identities := NewInMemoryIdentityStore()
	registry := NewInMemoryRegistry()
	user := &User{ID: "01J9ADMIN00000000000000000", Email: "admin@club.test", Nombre: "Admin", IsAdmin: true}
	if err := identities.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	ident := &Identity{ID: user.ID, Email: user.Email, Name: user.Nombre, CachedAdmin: true}
	return NewVerifier(registry, identities), identities, registry, ident
}

func TestVerifyAllowsRegisteredAdmin(t *testing.T) {
	verifier, _, registry, ident := seedVerifier(t)
	if _, err := registry.Add(context.Background(), ident.Email); err != nil {
		t.Fatalf("registry add: %v", err)
	}
	if err := verifier.Verify(context.Background(), ident); err != nil {
		t.Fatalf("expected admin to pass, got %v", err)
	}
}

func TestVerifyRejectsMissingIdentity(t *testing.T) {
	verifier, _, _, _ := seedVerifier(t)
	if err := verifier.Verify(context.Background(), nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestVerifyRejectsNonAdminWithoutLookup(t *testing.T) {
	identities := NewInMemoryIdentityStore()
	// Registry that always errors: a false cached flag must short-circuit
	// before any registry access.
	verifier := NewVerifier(failingRegistry{err: errors.New("down")}, identities)
	err := verifier.Verify(context.Background(), &Identity{ID: "u1", Email: "x@y.z", CachedAdmin: false})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestVerifyCorrectsDriftedFlag(t *testing.T) {
	verifier, identities, _, ident := seedVerifier(t)

	err := verifier.Verify(context.Background(), ident)
	if !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked, got %v", err)
	}
	if ident.CachedAdmin {
		t.Fatal("request-scoped flag should be corrected")
	}
	stored, findErr := identities.FindUserByID(context.Background(), ident.ID)
	if findErr != nil {
		t.Fatalf("find user: %v", findErr)
	}
	if stored.IsAdmin {
		t.Fatal("stored flag should be corrected to false")
	}
}

func TestVerifyFailsClosedOnRegistryError(t *testing.T) {
	identities := NewInMemoryIdentityStore()
	verifier := NewVerifier(failingRegistry{err: errors.New("connection refused")}, identities)
	err := verifier.Verify(context.Background(), &Identity{ID: "u1", Email: "a@b.c", CachedAdmin: true})
	if !errors.Is(err, ErrRegistryUnavailable) {
		t.Fatalf("expected ErrRegistryUnavailable, got %v", err)
	}
}

func TestVerifyDeniesEvenWhenCorrectionWriteFails(t *testing.T) {
	registry := NewInMemoryRegistry()
	broken := brokenIdentityStore{setAdminErr: errors.New("write refused")}
	verifier := NewVerifier(registry, broken)
	err := verifier.Verify(context.Background(), &Identity{ID: "u1", Email: "gone@club.test", CachedAdmin: true})
	if !errors.Is(err, ErrRevoked) {
		t.Fatalf("expected ErrRevoked despite failed correction, got %v", err)
	}
}

func TestConcurrentDriftCorrectionsConverge(t *testing.T) {
	verifier, identities, _, ident := seedVerifier(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := *ident
			if err := verifier.Verify(context.Background(), &local); !errors.Is(err, ErrRevoked) {
				t.Errorf("expected ErrRevoked, got %v", err)
			}
		}()
	}
	wg.Wait()

	stored, err := identities.FindUserByID(context.Background(), ident.ID)
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.IsAdmin {
		t.Fatal("concurrent corrections should converge to false")
	}
}
