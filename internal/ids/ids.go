package ids

import (
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable logical identifier. Logical ids
// are assigned by the application at creation time, independent of whatever
// key the storage engine assigns to the row.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// IsLogical reports whether raw has the shape of a logical identifier.
func IsLogical(raw string) bool {
	_, err := ulid.ParseStrict(raw)
	return err == nil
}
