package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"beneficios.club/internal/catalog"
)

func (s *Store) CreateBenefit(ctx context.Context, b *catalog.Benefit) error {
	row := s.db.QueryRowContext(ctx, `
		insert into beneficios (id, titulo, descripcion, descuento, categoria_id, ciudad_id, activo)
		values ($1, $2, $3, $4, nullif($5,''), nullif($6,''), $7)
		returning uid, created_at, updated_at
	`, b.ID, b.Titulo, b.Descripcion, b.Descuento, b.CategoriaID, b.CiudadID, b.Activo)
	if err := row.Scan(&b.UID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return catalog.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) GetBenefit(ctx context.Context, id string) (*catalog.Benefit, error) {
	var (
		b         catalog.Benefit
		categoria sql.NullString
		ciudad    sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		select id, uid, titulo, descripcion, descuento, categoria_id, ciudad_id, activo, created_at, updated_at
		from beneficios
		where id = $1
	`, id).Scan(&b.ID, &b.UID, &b.Titulo, &b.Descripcion, &b.Descuento, &categoria, &ciudad, &b.Activo, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if categoria.Valid {
		b.CategoriaID = categoria.String
	}
	if ciudad.Valid {
		b.CiudadID = ciudad.String
	}
	return &b, nil
}

func (s *Store) ListBenefits(ctx context.Context, limit, offset int) ([]catalog.Benefit, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, uid, titulo, descripcion, descuento, categoria_id, ciudad_id, activo, created_at, updated_at
		from beneficios
		order by created_at desc, id desc
		limit $1 offset $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Benefit
	for rows.Next() {
		var (
			b         catalog.Benefit
			categoria sql.NullString
			ciudad    sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.UID, &b.Titulo, &b.Descripcion, &b.Descuento, &categoria, &ciudad, &b.Activo, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		if categoria.Valid {
			b.CategoriaID = categoria.String
		}
		if ciudad.Valid {
			b.CiudadID = ciudad.String
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateBenefit(ctx context.Context, id string, upd catalog.BenefitUpdate) (*catalog.Benefit, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.Titulo != nil {
		sets = append(sets, fmt.Sprintf("titulo = $%d", idx))
		args = append(args, *upd.Titulo)
		idx++
	}
	if upd.Descripcion != nil {
		sets = append(sets, fmt.Sprintf("descripcion = $%d", idx))
		args = append(args, *upd.Descripcion)
		idx++
	}
	if upd.Descuento != nil {
		sets = append(sets, fmt.Sprintf("descuento = $%d", idx))
		args = append(args, *upd.Descuento)
		idx++
	}
	if upd.CategoriaID != nil {
		sets = append(sets, fmt.Sprintf("categoria_id = nullif($%d,'')", idx))
		args = append(args, *upd.CategoriaID)
		idx++
	}
	if upd.CiudadID != nil {
		sets = append(sets, fmt.Sprintf("ciudad_id = nullif($%d,'')", idx))
		args = append(args, *upd.CiudadID)
		idx++
	}
	if upd.Activo != nil {
		sets = append(sets, fmt.Sprintf("activo = $%d", idx))
		args = append(args, *upd.Activo)
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update beneficios set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
				return nil, catalog.ErrInvalidInput
			}
			return nil, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if aff == 0 {
			return nil, catalog.ErrNotFound
		}
	}
	return s.GetBenefit(ctx, id)
}

func (s *Store) DeleteBenefit(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "beneficios", id)
}

func (s *Store) CreateWallet(ctx context.Context, w *catalog.Wallet) error {
	row := s.db.QueryRowContext(ctx, `
		insert into wallets (id, user_id, saldo, activa)
		values ($1, $2, $3, $4)
		returning uid, created_at, updated_at
	`, w.ID, w.UserID, w.Saldo, w.Activa)
	if err := row.Scan(&w.UID, &w.CreatedAt, &w.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return catalog.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) GetWallet(ctx context.Context, id string) (*catalog.Wallet, error) {
	var w catalog.Wallet
	err := s.db.QueryRowContext(ctx, `
		select id, uid, user_id, saldo, activa, created_at, updated_at
		from wallets
		where id = $1
	`, id).Scan(&w.ID, &w.UID, &w.UserID, &w.Saldo, &w.Activa, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) ListWallets(ctx context.Context, limit, offset int) ([]catalog.Wallet, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, uid, user_id, saldo, activa, created_at, updated_at
		from wallets
		order by created_at desc, id desc
		limit $1 offset $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Wallet
	for rows.Next() {
		var w catalog.Wallet
		if err := rows.Scan(&w.ID, &w.UID, &w.UserID, &w.Saldo, &w.Activa, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateWallet(ctx context.Context, id string, upd catalog.WalletUpdate) (*catalog.Wallet, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.Saldo != nil {
		sets = append(sets, fmt.Sprintf("saldo = $%d", idx))
		args = append(args, *upd.Saldo)
		idx++
	}
	if upd.Activa != nil {
		sets = append(sets, fmt.Sprintf("activa = $%d", idx))
		args = append(args, *upd.Activa)
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update wallets set %s where id = $%d`, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if aff == 0 {
			return nil, catalog.ErrNotFound
		}
	}
	return s.GetWallet(ctx, id)
}

func (s *Store) DeleteWallet(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "wallets", id)
}

func (s *Store) CreateReference(ctx context.Context, entityType string, ref *catalog.Reference) error {
	table, ok := referenceTable(entityType)
	if !ok {
		return catalog.ErrUnknownEntity
	}
	var (
		row *sql.Row
	)
	if table == "ciudades" {
		row = s.db.QueryRowContext(ctx, `
			insert into ciudades (id, nombre, localidad_id)
			values ($1, $2, nullif($3,''))
			returning uid, created_at, updated_at
		`, ref.ID, ref.Nombre, ref.ParentID)
	} else {
		query := fmt.Sprintf(`
			insert into %s (id, nombre)
			values ($1, $2)
			returning uid, created_at, updated_at
		`, table)
		row = s.db.QueryRowContext(ctx, query, ref.ID, ref.Nombre)
	}
	if err := row.Scan(&ref.UID, &ref.CreatedAt, &ref.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
			return catalog.ErrInvalidInput
		}
		return err
	}
	return nil
}

func (s *Store) GetReference(ctx context.Context, entityType, id string) (*catalog.Reference, error) {
	table, ok := referenceTable(entityType)
	if !ok {
		return nil, catalog.ErrUnknownEntity
	}
	var (
		ref    catalog.Reference
		parent sql.NullString
	)
	query := fmt.Sprintf(`
		select id, uid, nombre, %s, created_at, updated_at
		from %s
		where id = $1
	`, parentColumn(table), table)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&ref.ID, &ref.UID, &ref.Nombre, &parent, &ref.CreatedAt, &ref.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		ref.ParentID = parent.String
	}
	return &ref, nil
}

func (s *Store) ListReferences(ctx context.Context, entityType string, limit, offset int) ([]catalog.Reference, error) {
	table, ok := referenceTable(entityType)
	if !ok {
		return nil, catalog.ErrUnknownEntity
	}
	query := fmt.Sprintf(`
		select id, uid, nombre, %s, created_at, updated_at
		from %s
		order by nombre, id
		limit $1 offset $2
	`, parentColumn(table), table)
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Reference
	for rows.Next() {
		var (
			ref    catalog.Reference
			parent sql.NullString
		)
		if err := rows.Scan(&ref.ID, &ref.UID, &ref.Nombre, &parent, &ref.CreatedAt, &ref.UpdatedAt); err != nil {
			return nil, err
		}
		if parent.Valid {
			ref.ParentID = parent.String
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) UpdateReference(ctx context.Context, entityType, id string, upd catalog.ReferenceUpdate) (*catalog.Reference, error) {
	table, ok := referenceTable(entityType)
	if !ok {
		return nil, catalog.ErrUnknownEntity
	}
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.Nombre != nil {
		sets = append(sets, fmt.Sprintf("nombre = $%d", idx))
		args = append(args, *upd.Nombre)
		idx++
	}
	if upd.ParentID != nil && table == "ciudades" {
		sets = append(sets, fmt.Sprintf("localidad_id = nullif($%d,'')", idx))
		args = append(args, *upd.ParentID)
		idx++
	}
	if len(sets) > 0 {
		sets = append(sets, "updated_at = now()")
		query := fmt.Sprintf(`update %s set %s where id = $%d`, table, strings.Join(sets, ", "), idx)
		args = append(args, id)
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrForeignKeyViolation {
				return nil, catalog.ErrInvalidInput
			}
			return nil, err
		}
		aff, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if aff == 0 {
			return nil, catalog.ErrNotFound
		}
	}
	return s.GetReference(ctx, entityType, id)
}

func (s *Store) DeleteReference(ctx context.Context, entityType, id string) error {
	table, ok := referenceTable(entityType)
	if !ok {
		return catalog.ErrUnknownEntity
	}
	return s.deleteByID(ctx, table, id)
}

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	query := fmt.Sprintf(`delete from %s where id = $1`, table)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// referenceTable maps a reference entity type to its table, rejecting
// anything outside the known set.
func referenceTable(entityType string) (string, bool) {
	if !catalog.ReferenceTypes[entityType] {
		return "", false
	}
	return entityTables[entityType], true
}

// ciudades carry a link to their localidad; the other reference tables
// select a null placeholder so one scan shape covers all three.
func parentColumn(table string) string {
	if table == "ciudades" {
		return "localidad_id"
	}
	return "null::text"
}
