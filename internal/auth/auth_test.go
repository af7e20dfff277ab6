package auth

import (
	"context"
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	user := &User{
		ID:      "01J9TESTUSER00000000000000",
		Email:   "Ana@Example.com",
		Nombre:  "Ana",
		IsAdmin: true,
	}
	token, expiresAt, err := GenerateToken(user, 30*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected future expiration, got %v", expiresAt)
	}

	ident, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if ident.ID != user.ID {
		t.Fatalf("unexpected subject: %s", ident.ID)
	}
	if ident.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %s", ident.Email)
	}
	if !ident.CachedAdmin {
		t.Fatal("admin claim lost")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	user := &User{ID: "u1", Email: "a@b.com", Nombre: "A"}
	token, _, err := GenerateToken(user, time.Millisecond)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := ParseAndValidate(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	t.Setenv(secretEnvVariable, "secret-a")
	ResetSecretForTests()
	token, _, err := GenerateToken(&User{ID: "u1", Email: "a@b.com", Nombre: "A"}, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	t.Setenv(secretEnvVariable, "secret-b")
	ResetSecretForTests()
	if _, err := ParseAndValidate(token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestIdentityContextHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := IdentityFromContext(ctx); ok {
		t.Fatal("empty context should carry no identity")
	}

	ident := &Identity{ID: "u7", Email: "a@b.com", CachedAdmin: true}
	ctx = ContextWithIdentity(ctx, ident)
	got, ok := IdentityFromContext(ctx)
	if !ok || got.ID != "u7" {
		t.Fatalf("unexpected identity: %+v ok=%v", got, ok)
	}

	if VerifiedAdminFromContext(ctx) {
		t.Fatal("context should not be verified yet")
	}
	ctx = ContextWithVerifiedAdmin(ctx)
	if !VerifiedAdminFromContext(ctx) {
		t.Fatal("expected verified marker")
	}
}

func TestServiceRegisterAndLogin(t *testing.T) {
	t.Setenv(secretEnvVariable, "test-secret")
	ResetSecretForTests()

	store := NewInMemoryIdentityStore()
	svc := NewService(store, time.Hour)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ana@Example.com", "Ana", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.IsAdmin {
		t.Fatal("registration must not grant admin")
	}
	if _, err := svc.Register(ctx, "ana@example.com", "Ana", "hunter2hunter2"); err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}

	if _, _, _, err := svc.Login(ctx, "ana@example.com", "wrong-password"); err == nil {
		t.Fatal("expected bad password to be rejected")
	}
	token, _, logged, err := svc.Login(ctx, "ana@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("unexpected user: %s", logged.ID)
	}
	ident, err := ParseAndValidate(token)
	if err != nil {
		t.Fatalf("ParseAndValidate: %v", err)
	}
	if ident.CachedAdmin {
		t.Fatal("token should carry admin=false for a plain user")
	}
}
