package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"beneficios.club/internal/auth"
)

func (s *Store) CreateUser(ctx context.Context, u *auth.User) error {
	row := s.db.QueryRowContext(ctx, `
		insert into users (id, email, nombre, password_hash, is_admin)
		values ($1, $2, $3, $4, $5)
		returning uid, created_at, updated_at
	`, u.ID, strings.ToLower(u.Email), u.Nombre, u.PasswordHash, u.IsAdmin)
	if err := row.Scan(&u.UID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Store) FindUserByID(ctx context.Context, id string) (*auth.User, error) {
	return s.findUser(ctx, `where id = $1`, id)
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.findUser(ctx, `where email = $1`, strings.ToLower(email))
}

func (s *Store) findUser(ctx context.Context, where string, arg any) (*auth.User, error) {
	var u auth.User
	err := s.db.QueryRowContext(ctx, `
		select id, uid, email, nombre, password_hash, is_admin, created_at, updated_at
		from users
	`+where, arg).Scan(&u.ID, &u.UID, &u.Email, &u.Nombre, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetAdmin writes the cached flag unconditionally, so concurrent
// corrections for the same user converge.
func (s *Store) SetAdmin(ctx context.Context, userID string, admin bool) error {
	res, err := s.db.ExecContext(ctx, `
		update users set is_admin = $2, updated_at = now()
		where id = $1
	`, userID, admin)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (s *Store) Contains(ctx context.Context, email string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `
		select 1 from admin_roles where email = $1
	`, strings.ToLower(email)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Add(ctx context.Context, email string) (auth.AdminRole, error) {
	var role auth.AdminRole
	err := s.db.QueryRowContext(ctx, `
		insert into admin_roles (email)
		values ($1)
		on conflict (email) do update set email = excluded.email
		returning email, created_at
	`, strings.ToLower(email)).Scan(&role.Email, &role.CreatedAt)
	if err != nil {
		return auth.AdminRole{}, err
	}
	return role, nil
}

func (s *Store) Remove(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx, `
		delete from admin_roles where email = $1
	`, strings.ToLower(email))
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if aff == 0 {
		return auth.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]auth.AdminRole, error) {
	rows, err := s.db.QueryContext(ctx, `
		select email, created_at from admin_roles order by email
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []auth.AdminRole
	for rows.Next() {
		var role auth.AdminRole
		if err := rows.Scan(&role.Email, &role.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return roles, nil
}
