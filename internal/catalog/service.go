package catalog

import (
	"context"
	"fmt"
	"strings"

	"beneficios.club/internal/ids"
	"beneficios.club/internal/resolve"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Service provides CRUD over catalog entities. External references (path
// ids) pass through the resolution layer, so callers may supply either id
// flavor everywhere an entity is addressed.
type Service struct {
	store    Store
	resolver *resolve.Resolver
}

// NewService constructs the catalog service over the given store.
func NewService(store Store) *Service {
	return &Service{store: store, resolver: resolve.NewResolver(store)}
}

// Resolver exposes the resolution layer for components that need raw
// snapshots, such as audit before-capture.
func (s *Service) Resolver() *resolve.Resolver {
	return s.resolver
}

func (s *Service) resolveID(ctx context.Context, entityType, ref string) (string, error) {
	res, err := s.resolver.Resolve(ctx, entityType, ref)
	if err != nil {
		return "", err
	}
	if !res.Found {
		return "", ErrNotFound
	}
	return res.LogicalID, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

// --- beneficios -----------------------------------------------------------

// BenefitInput carries the fields accepted at benefit creation.
type BenefitInput struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
	Descuento   int    `json:"descuento"`
	CategoriaID string `json:"categoria_id"`
	CiudadID    string `json:"ciudad_id"`
	Activo      bool   `json:"activo"`
}

func (s *Service) CreateBenefit(ctx context.Context, in BenefitInput) (*Benefit, error) {
	in.Titulo = strings.TrimSpace(in.Titulo)
	if in.Titulo == "" {
		return nil, fmt.Errorf("%w: titulo is required", ErrInvalidInput)
	}
	if in.Descuento < 0 || in.Descuento > 100 {
		return nil, fmt.Errorf("%w: descuento must be between 0 and 100", ErrInvalidInput)
	}
	b := &Benefit{
		ID:          ids.New(),
		Titulo:      in.Titulo,
		Descripcion: strings.TrimSpace(in.Descripcion),
		Descuento:   in.Descuento,
		CategoriaID: strings.TrimSpace(in.CategoriaID),
		CiudadID:    strings.TrimSpace(in.CiudadID),
		Activo:      in.Activo,
	}
	if err := s.store.CreateBenefit(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBenefit(ctx context.Context, ref string) (*Benefit, error) {
	id, err := s.resolveID(ctx, TypeBeneficios, ref)
	if err != nil {
		return nil, err
	}
	return s.store.GetBenefit(ctx, id)
}

func (s *Service) ListBenefits(ctx context.Context, limit, offset int) ([]Benefit, error) {
	if offset < 0 {
		offset = 0
	}
	return s.store.ListBenefits(ctx, clampLimit(limit), offset)
}

func (s *Service) UpdateBenefit(ctx context.Context, ref string, upd BenefitUpdate) (*Benefit, error) {
	if upd.Titulo != nil {
		t := strings.TrimSpace(*upd.Titulo)
		if t == "" {
			return nil, fmt.Errorf("%w: titulo is required", ErrInvalidInput)
		}
		upd.Titulo = &t
	}
	if upd.Descuento != nil && (*upd.Descuento < 0 || *upd.Descuento > 100) {
		return nil, fmt.Errorf("%w: descuento must be between 0 and 100", ErrInvalidInput)
	}
	id, err := s.resolveID(ctx, TypeBeneficios, ref)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateBenefit(ctx, id, upd)
}

func (s *Service) DeleteBenefit(ctx context.Context, ref string) error {
	id, err := s.resolveID(ctx, TypeBeneficios, ref)
	if err != nil {
		return err
	}
	return s.store.DeleteBenefit(ctx, id)
}

// --- wallets --------------------------------------------------------------

// WalletInput carries the fields accepted at wallet creation.
type WalletInput struct {
	UserID string `json:"user_id"`
	Saldo  int64  `json:"saldo"`
	Activa bool   `json:"activa"`
}

func (s *Service) CreateWallet(ctx context.Context, in WalletInput) (*Wallet, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}
	if in.Saldo < 0 {
		return nil, fmt.Errorf("%w: saldo must be >= 0", ErrInvalidInput)
	}
	w := &Wallet{
		ID:     ids.New(),
		UserID: in.UserID,
		Saldo:  in.Saldo,
		Activa: in.Activa,
	}
	if err := s.store.CreateWallet(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *Service) GetWallet(ctx context.Context, ref string) (*Wallet, error) {
	id, err := s.resolveID(ctx, TypeWallets, ref)
	if err != nil {
		return nil, err
	}
	return s.store.GetWallet(ctx, id)
}

func (s *Service) ListWallets(ctx context.Context, limit, offset int) ([]Wallet, error) {
	if offset < 0 {
		offset = 0
	}
	return s.store.ListWallets(ctx, clampLimit(limit), offset)
}

func (s *Service) UpdateWallet(ctx context.Context, ref string, upd WalletUpdate) (*Wallet, error) {
	if upd.Saldo != nil && *upd.Saldo < 0 {
		return nil, fmt.Errorf("%w: saldo must be >= 0", ErrInvalidInput)
	}
	id, err := s.resolveID(ctx, TypeWallets, ref)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateWallet(ctx, id, upd)
}

func (s *Service) DeleteWallet(ctx context.Context, ref string) error {
	id, err := s.resolveID(ctx, TypeWallets, ref)
	if err != nil {
		return err
	}
	return s.store.DeleteWallet(ctx, id)
}

// --- reference entities ---------------------------------------------------

// ReferenceInput carries the fields accepted at reference creation.
type ReferenceInput struct {
	Nombre   string `json:"nombre"`
	ParentID string `json:"parent_id"`
}

func (s *Service) CreateReference(ctx context.Context, entityType string, in ReferenceInput) (*Reference, error) {
	if !ReferenceTypes[entityType] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	in.Nombre = strings.TrimSpace(in.Nombre)
	if in.Nombre == "" {
		return nil, fmt.Errorf("%w: nombre is required", ErrInvalidInput)
	}
	ref := &Reference{
		ID:       ids.New(),
		Nombre:   in.Nombre,
		ParentID: strings.TrimSpace(in.ParentID),
	}
	if err := s.store.CreateReference(ctx, entityType, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (s *Service) GetReference(ctx context.Context, entityType, rawRef string) (*Reference, error) {
	if !ReferenceTypes[entityType] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	id, err := s.resolveID(ctx, entityType, rawRef)
	if err != nil {
		return nil, err
	}
	return s.store.GetReference(ctx, entityType, id)
}

func (s *Service) ListReferences(ctx context.Context, entityType string, limit, offset int) ([]Reference, error) {
	if !ReferenceTypes[entityType] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListReferences(ctx, entityType, clampLimit(limit), offset)
}

func (s *Service) UpdateReference(ctx context.Context, entityType, rawRef string, upd ReferenceUpdate) (*Reference, error) {
	if !ReferenceTypes[entityType] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	if upd.Nombre != nil {
		n := strings.TrimSpace(*upd.Nombre)
		if n == "" {
			return nil, fmt.Errorf("%w: nombre is required", ErrInvalidInput)
		}
		upd.Nombre = &n
	}
	id, err := s.resolveID(ctx, entityType, rawRef)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateReference(ctx, entityType, id, upd)
}

func (s *Service) DeleteReference(ctx context.Context, entityType, rawRef string) error {
	if !ReferenceTypes[entityType] {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entityType)
	}
	id, err := s.resolveID(ctx, entityType, rawRef)
	if err != nil {
		return err
	}
	return s.store.DeleteReference(ctx, entityType, id)
}
