package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zanvidmar/oprema/internal/config"
	"github.com/zanvidmar/oprema/internal/model"
	"github.com/zanvidmar/oprema/internal/store"
)

// UnitsHandler handles inventory unit lifecycle endpoints.
type UnitsHandler struct {
	DB   *sql.DB
	Loan config.LoanConfig
}

type stockInRequest struct {
	AssetID  int64  `json:"asset_id"`
	SerialNo string `json:"serial_no"`
	Location string `json:"location"`
}

type checkoutRequest struct {
	UserID           int64  `json:"user_id"`
	Remark           string `json:"remark"`
	ExpectedReturnAt string `json:"expected_return_at"`
}

type returnRequest struct {
	Remark string `json:"remark"`
}

// List handles GET /api/units with optional status and asset_id filters.
func (h *UnitsHandler) List(w http.ResponseWriter, r *http.Request) {
	var assetID int64
	if raw := r.URL.Query().Get("asset_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid asset_id")
			return
		}
		assetID = id
	}

	units, err := store.ListUnits(r.Context(), h.DB, r.URL.Query().Get("status"), assetID)
	if err != nil {
		storeError(w, err, "failed to list units")
		return
	}
	if units == nil {
		units = []model.Unit{}
	}
	jsonResponse(w, http.StatusOK, units)
}

// Get handles GET /api/units/{id}.
func (h *UnitsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid unit ID")
		return
	}

	unit, err := store.GetUnit(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get unit")
		return
	}
	if unit == nil {
		jsonError(w, http.StatusNotFound, "unit not found")
		return
	}
	jsonResponse(w, http.StatusOK, unit)
}

// StockIn handles POST /api/units. Registers a physical unit of an asset
// and makes it available for checkout.
func (h *UnitsHandler) StockIn(w http.ResponseWriter, r *http.Request) {
	var req stockInRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AssetID == 0 || req.SerialNo == "" {
		jsonError(w, http.StatusBadRequest, "asset_id and serial_no required")
		return
	}

	var actorID *int64
	if claims := GetClaims(r.Context()); claims != nil {
		actorID = &claims.UserID
	}

	unit, err := store.StockInUnit(r.Context(), h.DB, req.AssetID, req.SerialNo, req.Location, actorID)
	if err != nil {
		storeError(w, err, "failed to stock in unit")
		return
	}

	slog.Info("unit stocked in", "unit_id", unit.ID, "serial_no", unit.SerialNo)
	jsonResponse(w, http.StatusCreated, unit)
}

// Checkout handles POST /api/units/{id}/checkout. Puts an in-stock unit on
// loan to a user; the due date defaults from the configured loan duration
// when not supplied.
func (h *UnitsHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid unit ID")
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == 0 {
		jsonError(w, http.StatusBadRequest, "user_id required")
		return
	}

	var expectedReturnAt *time.Time
	if req.ExpectedReturnAt != "" {
		due, err := time.Parse(time.RFC3339, req.ExpectedReturnAt)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "expected_return_at must be RFC 3339")
			return
		}
		expectedReturnAt = &due
	}

	unit, err := store.CheckoutUnit(r.Context(), h.DB, id, req.UserID, req.Remark,
		expectedReturnAt, h.Loan.DefaultDurationDays)
	if err != nil {
		storeError(w, err, "failed to check out unit")
		return
	}

	slog.Info("unit checked out", "unit_id", unit.ID, "holder_id", req.UserID)
	jsonResponse(w, http.StatusOK, unit)
}

// Return handles POST /api/units/{id}/return. Brings a checked-out unit
// back into stock.
func (h *UnitsHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid unit ID")
		return
	}

	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	unit, err := store.ReturnUnit(r.Context(), h.DB, id, claims.UserID, req.Remark)
	if err != nil {
		storeError(w, err, "failed to return unit")
		return
	}

	slog.Info("unit returned", "unit_id", unit.ID)
	jsonResponse(w, http.StatusOK, unit)
}

// Records handles GET /api/units/{id}/records, newest first.
func (h *UnitsHandler) Records(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid unit ID")
		return
	}

	records, err := store.ListUnitRecords(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to list unit records")
		return
	}
	if records == nil {
		records = []model.CheckoutRecord{}
	}
	jsonResponse(w, http.StatusOK, records)
}
