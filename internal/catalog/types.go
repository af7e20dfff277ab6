package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Entity type names as they appear in routes and audit records.
const (
	TypeBeneficios  = "beneficios"
	TypeWallets     = "wallets"
	TypeLocalidades = "localidades"
	TypeCiudades    = "ciudades"
	TypeCategorias  = "categorias"
)

// ReferenceTypes are the simple lookup entities sharing one shape.
var ReferenceTypes = map[string]bool{
	TypeLocalidades: true,
	TypeCiudades:    true,
	TypeCategorias:  true,
}

// Benefit is a discount offered to members. Every entity carries both id
// flavors: ID is assigned by the application, UID by the storage engine.
type Benefit struct {
	ID          string    `json:"id"`
	UID         uuid.UUID `json:"uid"`
	Titulo      string    `json:"titulo"`
	Descripcion string    `json:"descripcion"`
	Descuento   int       `json:"descuento"`
	CategoriaID string    `json:"categoria_id,omitempty"`
	CiudadID    string    `json:"ciudad_id,omitempty"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Wallet accumulates points for one member.
type Wallet struct {
	ID        string    `json:"id"`
	UID       uuid.UUID `json:"uid"`
	UserID    string    `json:"user_id"`
	Saldo     int64     `json:"saldo"`
	Activa    bool      `json:"activa"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reference is the common shape of localidades, ciudades and categorias.
// ParentID links a ciudad to its localidad; it is empty otherwise.
type Reference struct {
	ID        string    `json:"id"`
	UID       uuid.UUID `json:"uid"`
	Nombre    string    `json:"nombre"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BenefitUpdate applies a partial update; nil fields are left untouched.
type BenefitUpdate struct {
	Titulo      *string `json:"titulo"`
	Descripcion *string `json:"descripcion"`
	Descuento   *int    `json:"descuento"`
	CategoriaID *string `json:"categoria_id"`
	CiudadID    *string `json:"ciudad_id"`
	Activo      *bool   `json:"activo"`
}

// WalletUpdate applies a partial update; nil fields are left untouched.
type WalletUpdate struct {
	Saldo  *int64 `json:"saldo"`
	Activa *bool  `json:"activa"`
}

// ReferenceUpdate applies a partial update; nil fields are left untouched.
type ReferenceUpdate struct {
	Nombre   *string `json:"nombre"`
	ParentID *string `json:"parent_id"`
}
