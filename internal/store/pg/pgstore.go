// Package pg implements every store contract over PostgreSQL through
// database/sql with the pgx driver.
package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"beneficios.club/internal/auth"
	"beneficios.club/internal/catalog"
	"beneficios.club/internal/resolve"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
)

type Store struct {
	db *sql.DB
}

var (
	_ catalog.Store      = (*Store)(nil)
	_ resolve.Lookup     = (*Store)(nil)
	_ auth.IdentityStore = (*Store)(nil)
	_ auth.AdminRegistry = (*Store)(nil)
)

// Open connects to dsn. Pool sizing is left to the caller via DB().
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection. Used by tests with sqlmock.
func NewWithDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// entityTables whitelists the tables reachable through the generic
// lookups. Entity types arrive from URLs and must never be
// interpolated into SQL unchecked.
var entityTables = map[string]string{
	catalog.TypeBeneficios:  "beneficios",
	catalog.TypeWallets:     "wallets",
	catalog.TypeLocalidades: "localidades",
	catalog.TypeCiudades:    "ciudades",
	catalog.TypeCategorias:  "categorias",
}

func (s *Store) FindByLogicalID(ctx context.Context, entityType, id string) (map[string]any, bool, error) {
	return s.findSnapshot(ctx, entityType, "id", id)
}

func (s *Store) FindByNativeID(ctx context.Context, entityType string, uid uuid.UUID) (map[string]any, bool, error) {
	return s.findSnapshot(ctx, entityType, "uid", uid)
}

func (s *Store) findSnapshot(ctx context.Context, entityType, column string, key any) (map[string]any, bool, error) {
	table, ok := entityTables[entityType]
	if !ok {
		return nil, false, fmt.Errorf("pg: unknown entity type %q", entityType)
	}
	var raw []byte
	query := fmt.Sprintf(`select to_jsonb(t) from %s t where %s = $1`, table, column)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	snapshot := map[string]any{}
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, true, nil
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}
