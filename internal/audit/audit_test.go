package audit

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestInMemoryStoreListFiltersAndOrders(t *testing.T) {
	s := NewInMemoryStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	seed := []Record{
		{ID: "01A", EntityType: "beneficios", Action: ActionCreate, Timestamp: base},
		{ID: "01B", EntityType: "beneficios", Action: ActionUpdate, Timestamp: base.Add(time.Minute)},
		{ID: "01C", EntityType: "wallets", Action: ActionCreate, Timestamp: base.Add(2 * time.Minute)},
		{ID: "01D", EntityType: "beneficios", Action: ActionDelete, Timestamp: base.Add(3 * time.Minute)},
	}
	for _, rec := range seed {
		if err := s.Append(context.Background(), rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := s.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 records, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.After(all[i-1].Timestamp) {
			t.Fatalf("records not ordered newest first at %d", i)
		}
	}

	benefits, err := s.List(context.Background(), Filter{EntityType: "beneficios"})
	if err != nil {
		t.Fatalf("list beneficios: %v", err)
	}
	if len(benefits) != 3 {
		t.Fatalf("expected 3 beneficios records, got %d", len(benefits))
	}

	creates, err := s.List(context.Background(), Filter{Action: ActionCreate})
	if err != nil {
		t.Fatalf("list creates: %v", err)
	}
	if len(creates) != 2 {
		t.Fatalf("expected 2 CREATE records, got %d", len(creates))
	}

	window, err := s.List(context.Background(), Filter{
		From: base.Add(time.Minute),
		To:   base.Add(2 * time.Minute),
	})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if len(window) != 2 {
		t.Fatalf("expected 2 records in window, got %d", len(window))
	}

	limited, err := s.List(context.Background(), Filter{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "01D" {
		t.Fatalf("expected newest record only, got %+v", limited)
	}
}

func TestInMemoryStoreCopiesSnapshots(t *testing.T) {
	s := NewInMemoryStore()
	rec := Record{ID: "01A", Action: ActionUpdate, Before: map[string]any{"saldo": 10}}
	if err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("append: %v", err)
	}
	rec.Before["saldo"] = 99

	got, err := s.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Before["saldo"] != 10 {
		t.Fatalf("stored snapshot mutated through caller map: %v", got[0].Before["saldo"])
	}
	got[0].Before["saldo"] = 7
	again, _ := s.List(context.Background(), Filter{})
	if again[0].Before["saldo"] != 10 {
		t.Fatal("stored snapshot mutated through returned copy")
	}
}

type countingPublisher struct {
	n atomic.Int64
}

func (p *countingPublisher) Publish(rec Record) { p.n.Add(1) }

func TestRecorderAssignsIDAndTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	pub := &countingPublisher{}
	rec := NewRecorder(store, pub)

	rec.Enqueue(Record{
		ActorID:    "01HZX",
		EntityType: "beneficios",
		EntityID:   "01HZY",
		Action:     ActionCreate,
		After:      map[string]any{"titulo": "2x1 cafe"},
	})
	rec.Drain()

	got, err := store.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	if got[0].ID == "" || got[0].Timestamp.IsZero() {
		t.Fatalf("id or timestamp not assigned: %+v", got[0])
	}
	if pub.n.Load() != 1 {
		t.Fatalf("expected 1 publish, got %d", pub.n.Load())
	}
}

type failingStore struct{}

func (failingStore) Append(ctx context.Context, rec Record) error {
	return errors.New("disk on fire")
}

func (failingStore) List(ctx context.Context, f Filter) ([]Record, error) {
	return nil, errors.New("disk on fire")
}

func TestRecorderSwallowsWriteFailures(t *testing.T) {
	pub := &countingPublisher{}
	rec := NewRecorder(failingStore{}, pub)
	rec.Enqueue(Record{EntityType: "wallets", Action: ActionUpdate})
	rec.Drain()
	if pub.n.Load() != 0 {
		t.Fatal("failed write must not be published")
	}
}

func TestRecorderConcurrentEnqueue(t *testing.T) {
	store := NewInMemoryStore()
	rec := NewRecorder(store, nil)
	for i := 0; i < 16; i++ {
		rec.Enqueue(Record{EntityType: "beneficios", Action: ActionUpdate})
	}
	rec.Drain()
	got, err := store.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 16 {
		t.Fatalf("expected 16 records, got %d", len(got))
	}
}
