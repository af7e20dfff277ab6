package catalog

import (
	"context"

	"beneficios.club/internal/resolve"
)

// Store describes persistence for catalog entities. Typed operations take
// logical ids; reference-flavor ambiguity is handled above the store by the
// resolution layer, which runs on the embedded generic lookups.
type Store interface {
	resolve.Lookup

	CreateBenefit(ctx context.Context, b *Benefit) error
	GetBenefit(ctx context.Context, id string) (*Benefit, error)
	ListBenefits(ctx context.Context, limit, offset int) ([]Benefit, error)
	UpdateBenefit(ctx context.Context, id string, upd BenefitUpdate) (*Benefit, error)
	DeleteBenefit(ctx context.Context, id string) error

	CreateWallet(ctx context.Context, w *Wallet) error
	GetWallet(ctx context.Context, id string) (*Wallet, error)
	ListWallets(ctx context.Context, limit, offset int) ([]Wallet, error)
	UpdateWallet(ctx context.Context, id string, upd WalletUpdate) (*Wallet, error)
	DeleteWallet(ctx context.Context, id string) error

	CreateReference(ctx context.Context, entityType string, ref *Reference) error
	GetReference(ctx context.Context, entityType, id string) (*Reference, error)
	ListReferences(ctx context.Context, entityType string, limit, offset int) ([]Reference, error)
	UpdateReference(ctx context.Context, entityType, id string, upd ReferenceUpdate) (*Reference, error)
	DeleteReference(ctx context.Context, entityType, id string) error
}
