package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/zanvidmar/oprema/internal/model"
	"github.com/zanvidmar/oprema/internal/store"
)

// MasterDataHandler handles asset type, vendor, and department endpoints.
type MasterDataHandler struct {
	DB *sql.DB
}

type namedRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// ListAssetTypes handles GET /api/asset-types.
func (h *MasterDataHandler) ListAssetTypes(w http.ResponseWriter, r *http.Request) {
	types, err := store.ListAssetTypes(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list asset types")
		return
	}
	if types == nil {
		types = []model.AssetType{}
	}
	jsonResponse(w, http.StatusOK, types)
}

// CreateAssetType handles POST /api/asset-types.
func (h *MasterDataHandler) CreateAssetType(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	t, err := store.CreateAssetType(r.Context(), h.DB, req.Name)
	if err != nil {
		storeError(w, err, "failed to create asset type")
		return
	}
	jsonResponse(w, http.StatusCreated, t)
}

// DeleteAssetType handles DELETE /api/asset-types/{id}.
func (h *MasterDataHandler) DeleteAssetType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid asset type ID")
		return
	}

	if err := store.DeleteAssetType(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete asset type")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "asset type deleted"})
}

// ListVendors handles GET /api/vendors.
func (h *MasterDataHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := store.ListVendors(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list vendors")
		return
	}
	if vendors == nil {
		vendors = []model.Vendor{}
	}
	jsonResponse(w, http.StatusOK, vendors)
}

// CreateVendor handles POST /api/vendors.
func (h *MasterDataHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	v, err := store.CreateVendor(r.Context(), h.DB, req.Name, req.Contact)
	if err != nil {
		storeError(w, err, "failed to create vendor")
		return
	}
	jsonResponse(w, http.StatusCreated, v)
}

// DeleteVendor handles DELETE /api/vendors/{id}.
func (h *MasterDataHandler) DeleteVendor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid vendor ID")
		return
	}

	if err := store.DeleteVendor(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete vendor")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "vendor deleted"})
}

// ListDepartments handles GET /api/departments.
func (h *MasterDataHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := store.ListDepartments(r.Context(), h.DB)
	if err != nil {
		storeError(w, err, "failed to list departments")
		return
	}
	if departments == nil {
		departments = []model.Department{}
	}
	jsonResponse(w, http.StatusOK, departments)
}

// CreateDepartment handles POST /api/departments.
func (h *MasterDataHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req namedRequest
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	d, err := store.CreateDepartment(r.Context(), h.DB, req.Name)
	if err != nil {
		storeError(w, err, "failed to create department")
		return
	}
	jsonResponse(w, http.StatusCreated, d)
}

// DeleteDepartment handles DELETE /api/departments/{id}.
func (h *MasterDataHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	if err := store.DeleteDepartment(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to delete department")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "department deleted"})
}
