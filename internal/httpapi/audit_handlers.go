package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"beneficios.club/internal/audit"
)

func (a *API) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	a.gated(a.listAuditRecords)(w, r)
}

func (a *API) listAuditRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := parseBoundedInt(q.Get("limit"), 50, 1, 500)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
		return
	}
	from, err := parseTime(q.Get("from"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "from must be RFC3339")
		return
	}
	to, err := parseTime(q.Get("to"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "to must be RFC3339")
		return
	}
	action := q.Get("action")
	switch action {
	case "", audit.ActionCreate, audit.ActionUpdate, audit.ActionDelete:
	default:
		writeError(w, r, http.StatusBadRequest, "action must be CREATE, UPDATE or DELETE")
		return
	}

	recs, err := a.audits.List(r.Context(), audit.Filter{
		EntityType: q.Get("entity_type"),
		Action:     action,
		From:       from,
		To:         to,
		Limit:      limit,
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "could not read audit trail")
		return
	}
	writeData(w, http.StatusOK, recs)
}

// handleAuditStream pushes persisted audit records over SSE.
func (a *API) handleAuditStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	a.gated(a.streamAuditRecords)(w, r)
}

func (a *API) streamAuditRecords(w http.ResponseWriter, r *http.Request) {
	if a.stream == nil {
		writeError(w, r, http.StatusServiceUnavailable, "streaming disabled")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	ch := a.stream.Subscribe(ctx)

	// Send an initial comment to establish the stream
	_, _ = w.Write([]byte(": stream started\n\n"))
	flusher.Flush()

	for rec := range ch {
		payload, err := json.Marshal(rec)
		if err != nil {
			continue
		}
		_, _ = w.Write([]byte("data: "))
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}
