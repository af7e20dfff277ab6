package audit

import (
	"context"
	"sync"
	"time"

	"beneficios.club/internal/ids"
	"beneficios.club/internal/obs"
)

// Publisher receives records that were successfully persisted, for
// live delivery. Implementations must not block.
type Publisher interface {
	Publish(rec Record)
}

// Recorder writes audit records off the request path. Enqueue returns
// immediately; the write happens on a detached context so that client
// cancellation or slow storage never affects the mutation that was
// already committed. Write failures are logged and counted, never
// returned to a caller.
type Recorder struct {
	store     Store
	publisher Publisher
	timeout   time.Duration
	wg        sync.WaitGroup
}

// NewRecorder builds a Recorder over store. publisher may be nil.
func NewRecorder(store Store, publisher Publisher) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		timeout:   5 * time.Second,
	}
}

// Enqueue schedules rec for persistence and returns without waiting.
// The record id and timestamp are assigned at write time if unset.
func (r *Recorder) Enqueue(rec Record) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if rec.ID == "" {
			rec.ID = ids.New()
		}
		if rec.Timestamp.IsZero() {
			rec.Timestamp = time.Now().UTC()
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.store.Append(ctx, rec); err != nil {
			obs.AuditWriteFailed()
			obs.LogError("audit append failed", map[string]any{
				"error":       err.Error(),
				"entity_type": rec.EntityType,
				"entity_id":   rec.EntityID,
				"action":      rec.Action,
			})
			return
		}
		obs.AuditRecordWritten(rec.EntityType, rec.Action)
		if r.publisher != nil {
			r.publisher.Publish(rec)
		}
	}()
}

// Drain blocks until all enqueued writes have finished. Used during
// shutdown and in tests.
func (r *Recorder) Drain() {
	r.wg.Wait()
}
