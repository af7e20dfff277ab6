package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"beneficios.club/internal/audit"
	"beneficios.club/internal/auth"
	"beneficios.club/internal/catalog"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestCreateBenefitFillsStorageFields(t *testing.T) {
	store, mock := newMock(t)
	uid := uuid.New()
	now := time.Now().UTC()
	mock.ExpectQuery("insert into beneficios").
		WithArgs("01HZX", "2x1 cafe", "", 50, "", "", true).
		WillReturnRows(sqlmock.NewRows([]string{"uid", "created_at", "updated_at"}).AddRow(uid, now, now))

	b := &catalog.Benefit{ID: "01HZX", Titulo: "2x1 cafe", Descuento: 50, Activo: true}
	if err := store.CreateBenefit(context.Background(), b); err != nil {
		t.Fatalf("CreateBenefit: %v", err)
	}
	if b.UID != uid || !b.CreatedAt.Equal(now) {
		t.Fatalf("storage fields not applied: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetBenefitNotFound(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery("select id, uid, titulo").
		WithArgs("01MISS").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := store.GetBenefit(context.Background(), "01MISS"); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateWalletBuildsPartialSet(t *testing.T) {
	store, mock := newMock(t)
	saldo := int64(250)
	uid := uuid.New()
	now := time.Now().UTC()

	mock.ExpectExec(`update wallets set saldo = \$1, updated_at = now\(\) where id = \$2`).
		WithArgs(saldo, "01W").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("select id, uid, user_id, saldo").
		WithArgs("01W").
		WillReturnRows(sqlmock.NewRows([]string{"id", "uid", "user_id", "saldo", "activa", "created_at", "updated_at"}).
			AddRow("01W", uid, "01U", saldo, true, now, now))

	w, err := store.UpdateWallet(context.Background(), "01W", catalog.WalletUpdate{Saldo: &saldo})
	if err != nil {
		t.Fatalf("UpdateWallet: %v", err)
	}
	if w.Saldo != saldo {
		t.Fatalf("unexpected saldo %d", w.Saldo)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindByNativeIDDecodesSnapshot(t *testing.T) {
	store, mock := newMock(t)
	uid := uuid.New()
	mock.ExpectQuery("select to_jsonb\\(t\\) from beneficios t where uid").
		WithArgs(uid).
		WillReturnRows(sqlmock.NewRows([]string{"to_jsonb"}).
			AddRow([]byte(`{"id":"01HZX","titulo":"2x1 cafe","descuento":50}`)))

	snapshot, found, err := store.FindByNativeID(context.Background(), catalog.TypeBeneficios, uid)
	if err != nil {
		t.Fatalf("FindByNativeID: %v", err)
	}
	if !found || snapshot["id"] != "01HZX" {
		t.Fatalf("unexpected snapshot %v", snapshot)
	}
}

func TestFindByLogicalIDUnknownEntityType(t *testing.T) {
	store, _ := newMock(t)
	if _, _, err := store.FindByLogicalID(context.Background(), "ledgers", "01X"); err == nil {
		t.Fatal("expected error for unknown entity type")
	}
}

func TestContainsReportsRegistryMembership(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery("select 1 from admin_roles").
		WithArgs("admin@beneficios.club").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	ok, err := store.Contains(context.Background(), "Admin@Beneficios.club")
	if err != nil {
		t.Fatalf("Contains: %v", err)
	}
	if !ok {
		t.Fatal("expected membership")
	}

	mock.ExpectQuery("select 1 from admin_roles").
		WithArgs("nobody@beneficios.club").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	ok, err = store.Contains(context.Background(), "nobody@beneficios.club")
	if err != nil {
		t.Fatalf("Contains miss: %v", err)
	}
	if ok {
		t.Fatal("expected no membership")
	}
}

func TestContainsSurfacesStorageFailure(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery("select 1 from admin_roles").
		WithArgs("admin@beneficios.club").
		WillReturnError(errors.New("connection refused"))

	if _, err := store.Contains(context.Background(), "admin@beneficios.club"); err == nil {
		t.Fatal("expected storage error to surface")
	}
}

func TestSetAdminUnknownUser(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec("update users set is_admin").
		WithArgs("01NOPE", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.SetAdmin(context.Background(), "01NOPE", false); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuditListAppliesFilters(t *testing.T) {
	store, mock := newMock(t)
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ts := from.Add(time.Hour)

	mock.ExpectQuery(`entity_type = \$1 and action = \$2 and ts >= \$3`).
		WithArgs("beneficios", audit.ActionUpdate, from, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "actor_id", "actor_name", "ts", "entity_type", "entity_id", "action", "before", "after"}).
			AddRow("01A", "01U", "Ana", ts, "beneficios", "01HZX", audit.ActionUpdate,
				[]byte(`{"descuento":10}`), []byte(`{"descuento":20}`)))

	recs, err := store.Audit().List(context.Background(), audit.Filter{
		EntityType: "beneficios",
		Action:     audit.ActionUpdate,
		From:       from,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Before["descuento"] != float64(10) || recs[0].After["descuento"] != float64(20) {
		t.Fatalf("snapshots not decoded: %+v", recs[0])
	}
}

func TestAuditAppendWritesSnapshots(t *testing.T) {
	store, mock := newMock(t)
	rec := audit.Record{
		ID:         "01A",
		ActorID:    "01U",
		ActorName:  "Ana",
		Timestamp:  time.Now().UTC(),
		EntityType: "wallets",
		EntityID:   "01W",
		Action:     audit.ActionDelete,
		Before:     map[string]any{"saldo": 100},
	}
	mock.ExpectExec("insert into audit_log").
		WithArgs(rec.ID, rec.ActorID, rec.ActorName, rec.Timestamp, rec.EntityType, rec.EntityID, rec.Action, []byte(`{"saldo":100}`), []byte(nil)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Audit().Append(context.Background(), rec); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
