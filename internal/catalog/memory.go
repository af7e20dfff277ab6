package catalog

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemory implements Store in process. Used by tests and by local
// development without a database.
type InMemory struct {
	mu       sync.RWMutex
	benefits map[string]*Benefit
	wallets  map[string]*Wallet
	refs     map[string]map[string]*Reference
}

// NewInMemory creates an empty catalog store.
func NewInMemory() *InMemory {
	refs := make(map[string]map[string]*Reference, len(ReferenceTypes))
	for t := range ReferenceTypes {
		refs[t] = make(map[string]*Reference)
	}
	return &InMemory{
		benefits: make(map[string]*Benefit),
		wallets:  make(map[string]*Wallet),
		refs:     refs,
	}
}

// snapshot serializes an entity into the generic map shape the resolution
// layer and audit capture work with.
func snapshot(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func (s *InMemory) FindByLogicalID(ctx context.Context, entityType, id string) (map[string]any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch entityType {
	case TypeBeneficios:
		if b, ok := s.benefits[id]; ok {
			return snapshot(b), true, nil
		}
	case TypeWallets:
		if w, ok := s.wallets[id]; ok {
			return snapshot(w), true, nil
		}
	default:
		if byID, ok := s.refs[entityType]; ok {
			if ref, ok := byID[id]; ok {
				return snapshot(ref), true, nil
			}
		}
	}
	return nil, false, nil
}

func (s *InMemory) FindByNativeID(ctx context.Context, entityType string, uid uuid.UUID) (map[string]any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch entityType {
	case TypeBeneficios:
		for _, b := range s.benefits {
			if b.UID == uid {
				return snapshot(b), true, nil
			}
		}
	case TypeWallets:
		for _, w := range s.wallets {
			if w.UID == uid {
				return snapshot(w), true, nil
			}
		}
	default:
		for _, ref := range s.refs[entityType] {
			if ref.UID == uid {
				return snapshot(ref), true, nil
			}
		}
	}
	return nil, false, nil
}

// --- beneficios -----------------------------------------------------------

func (s *InMemory) CreateBenefit(ctx context.Context, b *Benefit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&b.UID, &b.CreatedAt, &b.UpdatedAt)
	cp := *b
	s.benefits[b.ID] = &cp
	return nil
}

func (s *InMemory) GetBenefit(ctx context.Context, id string) (*Benefit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.benefits[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *InMemory) ListBenefits(ctx context.Context, limit, offset int) ([]Benefit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Benefit, 0, len(s.benefits))
	for _, b := range s.benefits {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (s *InMemory) UpdateBenefit(ctx context.Context, id string, upd BenefitUpdate) (*Benefit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.benefits[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Titulo != nil {
		b.Titulo = *upd.Titulo
	}
	if upd.Descripcion != nil {
		b.Descripcion = *upd.Descripcion
	}
	if upd.Descuento != nil {
		b.Descuento = *upd.Descuento
	}
	if upd.CategoriaID != nil {
		b.CategoriaID = *upd.CategoriaID
	}
	if upd.CiudadID != nil {
		b.CiudadID = *upd.CiudadID
	}
	if upd.Activo != nil {
		b.Activo = *upd.Activo
	}
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	return &cp, nil
}

func (s *InMemory) DeleteBenefit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.benefits[id]; !ok {
		return ErrNotFound
	}
	delete(s.benefits, id)
	return nil
}

// --- wallets --------------------------------------------------------------

func (s *InMemory) CreateWallet(ctx context.Context, w *Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(&w.UID, &w.CreatedAt, &w.UpdatedAt)
	cp := *w
	s.wallets[w.ID] = &cp
	return nil
}

func (s *InMemory) GetWallet(ctx context.Context, id string) (*Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *InMemory) ListWallets(ctx context.Context, limit, offset int) ([]Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Wallet, 0, len(s.wallets))
	for _, w := range s.wallets {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (s *InMemory) UpdateWallet(ctx context.Context, id string, upd WalletUpdate) (*Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Saldo != nil {
		w.Saldo = *upd.Saldo
	}
	if upd.Activa != nil {
		w.Activa = *upd.Activa
	}
	w.UpdatedAt = time.Now().UTC()
	cp := *w
	return &cp, nil
}

func (s *InMemory) DeleteWallet(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[id]; !ok {
		return ErrNotFound
	}
	delete(s.wallets, id)
	return nil
}

// --- reference entities ---------------------------------------------------

func (s *InMemory) CreateReference(ctx context.Context, entityType string, ref *Reference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.refs[entityType]
	if !ok {
		return ErrUnknownEntity
	}
	stamp(&ref.UID, &ref.CreatedAt, &ref.UpdatedAt)
	cp := *ref
	byID[ref.ID] = &cp
	return nil
}

func (s *InMemory) GetReference(ctx context.Context, entityType, id string) (*Reference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.refs[entityType][id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *ref
	return &cp, nil
}

func (s *InMemory) ListReferences(ctx context.Context, entityType string, limit, offset int) ([]Reference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID, ok := s.refs[entityType]
	if !ok {
		return nil, ErrUnknownEntity
	}
	out := make([]Reference, 0, len(byID))
	for _, ref := range byID {
		out = append(out, *ref)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (s *InMemory) UpdateReference(ctx context.Context, entityType, id string, upd ReferenceUpdate) (*Reference, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.refs[entityType][id]
	if !ok {
		return nil, ErrNotFound
	}
	if upd.Nombre != nil {
		ref.Nombre = *upd.Nombre
	}
	if upd.ParentID != nil {
		ref.ParentID = *upd.ParentID
	}
	ref.UpdatedAt = time.Now().UTC()
	cp := *ref
	return &cp, nil
}

func (s *InMemory) DeleteReference(ctx context.Context, entityType, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.refs[entityType]
	if !ok {
		return ErrUnknownEntity
	}
	if _, ok := byID[id]; !ok {
		return ErrNotFound
	}
	delete(byID, id)
	return nil
}

// --- helpers --------------------------------------------------------------

func stamp(uid *uuid.UUID, createdAt, updatedAt *time.Time) {
	if *uid == uuid.Nil {
		*uid = uuid.New()
	}
	now := time.Now().UTC()
	*createdAt = now
	*updatedAt = now
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
