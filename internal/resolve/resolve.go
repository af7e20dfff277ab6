// Package resolve turns caller-supplied entity references into stored
// entities. A reference is either a logical id (application-assigned) or a
// native id (assigned by the storage engine); callers never need to know
// which flavor they hold.
package resolve

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Lookup is the pair of persistence primitives resolution is built on.
// Implementations report a miss through the boolean, not through an error;
// the error channel is reserved for storage failures.
type Lookup interface {
	FindByLogicalID(ctx context.Context, entityType, id string) (map[string]any, bool, error)
	FindByNativeID(ctx context.Context, entityType string, uid uuid.UUID) (map[string]any, bool, error)
}

// Resolution is the outcome of resolving one reference. When Found is
// false the reference matched neither id space.
type Resolution struct {
	Found     bool
	LogicalID string
	Entity    map[string]any
}

// Resolver resolves references for every entity type over a single Lookup.
type Resolver struct {
	lookup Lookup
}

// NewResolver constructs a Resolver.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve tries the logical id space first, then interprets raw as a native
// id. At most one interpretation can hit: logical ids and native uuids are
// disjoint by construction. A raw value that parses as neither flavor, or
// parses but matches nothing, resolves to NotFound; only storage failures
// surface as errors.
func (r *Resolver) Resolve(ctx context.Context, entityType, raw string) (Resolution, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Resolution{}, nil
	}

	entity, ok, err := r.lookup.FindByLogicalID(ctx, entityType, raw)
	if err != nil {
		return Resolution{}, err
	}
	if ok {
		return Resolution{Found: true, LogicalID: raw, Entity: entity}, nil
	}

	uid, err := uuid.Parse(raw)
	if err != nil {
		return Resolution{}, nil
	}
	entity, ok, err = r.lookup.FindByNativeID(ctx, entityType, uid)
	if err != nil {
		return Resolution{}, err
	}
	if !ok {
		return Resolution{}, nil
	}
	logical, _ := entity["id"].(string)
	return Resolution{Found: true, LogicalID: logical, Entity: entity}, nil
}
