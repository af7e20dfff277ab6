package httpapi

import (
	"errors"
	"net/http"

	"beneficios.club/internal/audit"
	"beneficios.club/internal/catalog"
)

func (a *API) handleBenefitsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit, offset, ok := listParams(w, r)
		if !ok {
			return
		}
		items, err := a.catalog.ListBenefits(r.Context(), limit, offset)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, items)
	case http.MethodPost:
		a.gated(a.withAudit(catalog.TypeBeneficios, audit.ActionCreate, a.createBenefit))(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleBenefitResource(w http.ResponseWriter, r *http.Request) {
	ref, ok := resourceRef(r.URL.Path, "/v1/beneficios/")
	if !ok {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		b, err := a.catalog.GetBenefit(r.Context(), ref)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, b)
	case http.MethodPut:
		a.gated(a.withAudit(catalog.TypeBeneficios, audit.ActionUpdate, func(w http.ResponseWriter, r *http.Request) {
			a.updateBenefit(w, r, ref)
		}))(w, r)
	case http.MethodDelete:
		a.gated(a.withAudit(catalog.TypeBeneficios, audit.ActionDelete, func(w http.ResponseWriter, r *http.Request) {
			a.deleteBenefit(w, r, ref)
		}))(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createBenefit(w http.ResponseWriter, r *http.Request) {
	var req catalog.BenefitInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	b, err := a.catalog.CreateBenefit(r.Context(), req)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/beneficios/"+b.ID)
	writeData(w, http.StatusCreated, b)
}

func (a *API) updateBenefit(w http.ResponseWriter, r *http.Request, ref string) {
	var upd catalog.BenefitUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	b, err := a.catalog.UpdateBenefit(r.Context(), ref, upd)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, b)
}

func (a *API) deleteBenefit(w http.ResponseWriter, r *http.Request, ref string) {
	if err := a.catalog.DeleteBenefit(r.Context(), ref); err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": ref})
}

func (a *API) handleWalletsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit, offset, ok := listParams(w, r)
		if !ok {
			return
		}
		items, err := a.catalog.ListWallets(r.Context(), limit, offset)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, items)
	case http.MethodPost:
		a.gated(a.withAudit(catalog.TypeWallets, audit.ActionCreate, a.createWallet))(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleWalletResource(w http.ResponseWriter, r *http.Request) {
	ref, ok := resourceRef(r.URL.Path, "/v1/wallets/")
	if !ok {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		wallet, err := a.catalog.GetWallet(r.Context(), ref)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, wallet)
	case http.MethodPut:
		a.gated(a.withAudit(catalog.TypeWallets, audit.ActionUpdate, func(w http.ResponseWriter, r *http.Request) {
			a.updateWallet(w, r, ref)
		}))(w, r)
	case http.MethodDelete:
		a.gated(a.withAudit(catalog.TypeWallets, audit.ActionDelete, func(w http.ResponseWriter, r *http.Request) {
			a.deleteWallet(w, r, ref)
		}))(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createWallet(w http.ResponseWriter, r *http.Request) {
	var req catalog.WalletInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	wallet, err := a.catalog.CreateWallet(r.Context(), req)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/wallets/"+wallet.ID)
	writeData(w, http.StatusCreated, wallet)
}

func (a *API) updateWallet(w http.ResponseWriter, r *http.Request, ref string) {
	var upd catalog.WalletUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	wallet, err := a.catalog.UpdateWallet(r.Context(), ref, upd)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, wallet)
}

func (a *API) deleteWallet(w http.ResponseWriter, r *http.Request, ref string) {
	if err := a.catalog.DeleteWallet(r.Context(), ref); err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": ref})
}

func (a *API) handleReferenceCollection(w http.ResponseWriter, r *http.Request, entityType string) {
	switch r.Method {
	case http.MethodGet:
		limit, offset, ok := listParams(w, r)
		if !ok {
			return
		}
		items, err := a.catalog.ListReferences(r.Context(), entityType, limit, offset)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, items)
	case http.MethodPost:
		a.gated(a.withAudit(entityType, audit.ActionCreate, func(w http.ResponseWriter, r *http.Request) {
			a.createReference(w, r, entityType)
		}))(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleReferenceResource(w http.ResponseWriter, r *http.Request, entityType string) {
	ref, ok := resourceRef(r.URL.Path, "/v1/"+entityType+"/")
	if !ok {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		item, err := a.catalog.GetReference(r.Context(), entityType, ref)
		if err != nil {
			handleCatalogError(w, r, err)
			return
		}
		writeData(w, http.StatusOK, item)
	case http.MethodPut:
		a.gated(a.withAudit(entityType, audit.ActionUpdate, func(w http.ResponseWriter, r *http.Request) {
			a.updateReference(w, r, entityType, ref)
		}))(w, r)
	case http.MethodDelete:
		a.gated(a.withAudit(entityType, audit.ActionDelete, func(w http.ResponseWriter, r *http.Request) {
			a.deleteReference(w, r, entityType, ref)
		}))(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createReference(w http.ResponseWriter, r *http.Request, entityType string) {
	var req catalog.ReferenceInput
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item, err := a.catalog.CreateReference(r.Context(), entityType, req)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/"+entityType+"/"+item.ID)
	writeData(w, http.StatusCreated, item)
}

func (a *API) updateReference(w http.ResponseWriter, r *http.Request, entityType, ref string) {
	var upd catalog.ReferenceUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	item, err := a.catalog.UpdateReference(r.Context(), entityType, ref, upd)
	if err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (a *API) deleteReference(w http.ResponseWriter, r *http.Request, entityType, ref string) {
	if err := a.catalog.DeleteReference(r.Context(), entityType, ref); err != nil {
		handleCatalogError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": ref})
}

func listParams(w http.ResponseWriter, r *http.Request) (limit, offset int, ok bool) {
	limit, err := parseBoundedInt(r.URL.Query().Get("limit"), 50, 1, 500)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 500")
		return 0, 0, false
	}
	offset, err = parseBoundedInt(r.URL.Query().Get("offset"), 0, 0, 1<<30)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "offset must be a non-negative integer")
		return 0, 0, false
	}
	return limit, offset, true
}

func handleCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "resource not found")
	case errors.Is(err, catalog.ErrUnknownEntity):
		writeError(w, r, http.StatusNotFound, "unknown entity type")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
