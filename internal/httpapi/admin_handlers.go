package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"beneficios.club/internal/audit"
	"beneficios.club/internal/auth"
	"beneficios.club/internal/obs"
)

type addRoleRequest struct {
	Email string `json:"email"`
}

func (a *API) handleAdminRolesCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.gated(a.listAdminRoles)(w, r)
	case http.MethodPost:
		a.gated(a.withAudit(entityTypeRoles, audit.ActionCreate, a.addAdminRole))(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleAdminRoleResource(w http.ResponseWriter, r *http.Request) {
	email, ok := resourceRef(r.URL.Path, "/v1/admin/roles/")
	if !ok {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	a.gated(a.withAudit(entityTypeRoles, audit.ActionDelete, func(w http.ResponseWriter, r *http.Request) {
		a.removeAdminRole(w, r, email)
	}))(w, r)
}

func (a *API) listAdminRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := a.registry.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "could not list admin roles")
		return
	}
	writeData(w, http.StatusOK, roles)
}

func (a *API) addAdminRole(w http.ResponseWriter, r *http.Request) {
	var req addRoleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, r, http.StatusBadRequest, "a valid email is required")
		return
	}
	role, err := a.registry.Add(r.Context(), email)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "could not add admin role")
		return
	}
	// Refresh the cached flag so the next issued token starts correct.
	// The registry row is authoritative either way.
	a.syncCachedFlag(r, email, true)

	w.Header().Set("Location", "/v1/admin/roles/"+role.Email)
	writeData(w, http.StatusCreated, role)
}

func (a *API) removeAdminRole(w http.ResponseWriter, r *http.Request, email string) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := a.registry.Remove(r.Context(), email); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "resource not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "could not remove admin role")
		return
	}
	a.syncCachedFlag(r, email, false)
	writeData(w, http.StatusOK, map[string]any{"deleted": email})
}

func (a *API) syncCachedFlag(r *http.Request, email string, admin bool) {
	user, err := a.identities.FindUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, auth.ErrNotFound) {
			obs.LogError("cached flag lookup failed", map[string]any{
				"error": err.Error(),
				"email": email,
			})
		}
		return
	}
	if err := a.identities.SetAdmin(r.Context(), user.ID, admin); err != nil {
		obs.LogError("cached flag sync failed", map[string]any{
			"error": err.Error(),
			"email": email,
		})
	}
}
