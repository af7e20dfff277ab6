package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"beneficios.club/internal/audit"
)

// AuditStore persists audit records in the audit_log table. It is a
// separate type because the registry surface on Store already claims
// the List name.
type AuditStore struct {
	db *sql.DB
}

var _ audit.Store = (*AuditStore)(nil)

// Audit returns the audit-record store backed by the same pool.
func (s *Store) Audit() *AuditStore { return &AuditStore{db: s.db} }

func (a *AuditStore) Append(ctx context.Context, rec audit.Record) error {
	before, err := marshalSnapshot(rec.Before)
	if err != nil {
		return fmt.Errorf("marshal before: %w", err)
	}
	after, err := marshalSnapshot(rec.After)
	if err != nil {
		return fmt.Errorf("marshal after: %w", err)
	}
	_, err = a.db.ExecContext(ctx, `
		insert into audit_log (id, actor_id, actor_name, ts, entity_type, entity_id, action, before, after)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.ActorID, rec.ActorName, rec.Timestamp, rec.EntityType, rec.EntityID, rec.Action, before, after)
	return err
}

// List returns matching records newest first.
func (a *AuditStore) List(ctx context.Context, f audit.Filter) ([]audit.Record, error) {
	var (
		where []string
		args  []any
		idx   = 1
	)
	if f.EntityType != "" {
		where = append(where, fmt.Sprintf("entity_type = $%d", idx))
		args = append(args, f.EntityType)
		idx++
	}
	if f.Action != "" {
		where = append(where, fmt.Sprintf("action = $%d", idx))
		args = append(args, f.Action)
		idx++
	}
	if !f.From.IsZero() {
		where = append(where, fmt.Sprintf("ts >= $%d", idx))
		args = append(args, f.From)
		idx++
	}
	if !f.To.IsZero() {
		where = append(where, fmt.Sprintf("ts <= $%d", idx))
		args = append(args, f.To)
		idx++
	}

	query := `
		select id, actor_id, actor_name, ts, entity_type, entity_id, action, before, after
		from audit_log
	`
	if len(where) > 0 {
		query += " where " + strings.Join(where, " and ")
	}
	query += fmt.Sprintf(" order by ts desc, id desc limit $%d", idx)
	args = append(args, audit.ClampLimit(f.Limit))

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []audit.Record
	for rows.Next() {
		var (
			rec    audit.Record
			before []byte
			after  []byte
		)
		if err := rows.Scan(&rec.ID, &rec.ActorID, &rec.ActorName, &rec.Timestamp, &rec.EntityType, &rec.EntityID, &rec.Action, &before, &after); err != nil {
			return nil, err
		}
		if rec.Before, err = unmarshalSnapshot(before); err != nil {
			return nil, err
		}
		if rec.After, err = unmarshalSnapshot(after); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func marshalSnapshot(m map[string]any) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func unmarshalSnapshot(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	m := map[string]any{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return m, nil
}
