package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryIdentityStore implements IdentityStore in process. Used by tests
// and by local development without a database.
type InMemoryIdentityStore struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]*User
}

// NewInMemoryIdentityStore creates an empty identity store.
func NewInMemoryIdentityStore() *InMemoryIdentityStore {
	return &InMemoryIdentityStore{
		byID:    make(map[string]*User),
		byEmail: make(map[string]*User),
	}
}

func (s *InMemoryIdentityStore) CreateUser(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return ErrEmailTaken
	}
	if u.UID == uuid.Nil {
		u.UID = uuid.New()
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	cp := *u
	s.byID[u.ID] = &cp
	s.byEmail[email] = &cp
	return nil
}

func (s *InMemoryIdentityStore) FindUserByID(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryIdentityStore) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemoryIdentityStore) SetAdmin(ctx context.Context, userID string, admin bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return ErrNotFound
	}
	u.IsAdmin = admin
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// InMemoryRegistry implements AdminRegistry in process.
type InMemoryRegistry struct {
	mu     sync.RWMutex
	emails map[string]AdminRole
}

// NewInMemoryRegistry creates an empty registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{emails: make(map[string]AdminRole)}
}

func (r *InMemoryRegistry) Contains(ctx context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.emails[strings.ToLower(email)]
	return ok, nil
}

func (r *InMemoryRegistry) Add(ctx context.Context, email string) (AdminRole, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return AdminRole{}, ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if role, ok := r.emails[email]; ok {
		return role, nil
	}
	role := AdminRole{Email: email, CreatedAt: time.Now().UTC()}
	r.emails[email] = role
	return role, nil
}

func (r *InMemoryRegistry) Remove(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	if _, ok := r.emails[email]; !ok {
		return ErrNotFound
	}
	delete(r.emails, email)
	return nil
}

func (r *InMemoryRegistry) List(ctx context.Context) ([]AdminRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]AdminRole, 0, len(r.emails))
	for _, role := range r.emails {
		out = append(out, role)
	}
	return out, nil
}
