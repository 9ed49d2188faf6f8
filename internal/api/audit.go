package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/zanvidmar/oprema/internal/model"
	"github.com/zanvidmar/oprema/internal/store"
)

// AuditHandler exposes the audit log (admin only).
type AuditHandler struct {
	DB *sql.DB
}

const defaultAuditLimit = 100

// List handles GET /api/audit with an optional limit parameter.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 1000 {
			jsonError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = n
	}

	entries, err := store.ListAuditLog(r.Context(), h.DB, limit)
	if err != nil {
		storeError(w, err, "failed to list audit log")
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	jsonResponse(w, http.StatusOK, entries)
}
