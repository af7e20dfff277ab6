package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path"

	"beneficios.club/internal/audit"
	"beneficios.club/internal/auth"
)

// entityTypeRoles is the audit entity type for registry management.
const entityTypeRoles = "roles"

// recordingWriter tees the response so the capture wrapper can read
// the after-snapshot without interfering with the client.
type recordingWriter struct {
	http.ResponseWriter
	code int
	body bytes.Buffer
}

func (w *recordingWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.body.Write(p)
	return w.ResponseWriter.Write(p)
}

// withAudit wraps a mutation handler and emits one audit record when
// the response is successful and the caller passed the admin gate.
// Snapshot capture is best effort: a failed before-resolution or an
// unreadable response still produces a record with the pieces that
// could be gathered, and never changes the client-visible outcome.
func (a *API) withAudit(entityType, action string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			before   map[string]any
			beforeID string
		)
		if action != audit.ActionCreate {
			ref := path.Base(r.URL.Path)
			switch {
			case entityType == entityTypeRoles:
				before = map[string]any{"email": ref}
				beforeID = ref
			case a.catalog != nil:
				if res, err := a.catalog.Resolver().Resolve(r.Context(), entityType, ref); err == nil && res.Found {
					before = res.Entity
					beforeID = res.LogicalID
				}
			}
		}

		rec := &recordingWriter{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)

		if rec.code < 200 || rec.code >= 300 {
			return
		}
		if !auth.VerifiedAdminFromContext(r.Context()) {
			return
		}
		ident, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			return
		}

		var after map[string]any
		if action != audit.ActionDelete {
			after = dataPayload(rec.body.Bytes())
		}

		entityID := beforeID
		if entityID == "" && after != nil {
			if id, ok := after["id"].(string); ok {
				entityID = id
			} else if email, ok := after["email"].(string); ok {
				entityID = email
			}
		}

		a.recorder.Enqueue(audit.Record{
			ActorID:    ident.ID,
			ActorName:  ident.Name,
			EntityType: entityType,
			EntityID:   entityID,
			Action:     action,
			Before:     before,
			After:      after,
		})
	}
}

// dataPayload extracts the "data" object from a success envelope.
func dataPayload(body []byte) map[string]any {
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil
	}
	return envelope.Data
}
