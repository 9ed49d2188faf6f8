package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/zanvidmar/oprema/internal/imaging"
	"github.com/zanvidmar/oprema/internal/model"
	"github.com/zanvidmar/oprema/internal/store"
)

// AssetsHandler handles asset catalog endpoints.
type AssetsHandler struct {
	DB *sql.DB
}

type assetRequest struct {
	AssetNo      string   `json:"asset_no"`
	Name         string   `json:"name"`
	TypeID       *int64   `json:"type_id"`
	Model        string   `json:"model"`
	VendorID     *int64   `json:"vendor_id"`
	PurchaseDate string   `json:"purchase_date"`
	Location     string   `json:"location"`
	Price        *float64 `json:"price"`
}

func (req *assetRequest) params() (store.AssetParams, error) {
	p := store.AssetParams{
		AssetNo:  req.AssetNo,
		Name:     req.Name,
		TypeID:   req.TypeID,
		Model:    req.Model,
		VendorID: req.VendorID,
		Location: req.Location,
		Price:    req.Price,
	}
	if req.PurchaseDate != "" {
		date, err := time.Parse("2006-01-02", req.PurchaseDate)
		if err != nil {
			return p, err
		}
		p.PurchaseDate = &date
	}
	return p, nil
}

// List handles GET /api/assets with an optional status filter.
func (h *AssetsHandler) List(w http.ResponseWriter, r *http.Request) {
	assets, err := store.ListAssets(r.Context(), h.DB, r.URL.Query().Get("status"))
	if err != nil {
		storeError(w, err, "failed to list assets")
		return
	}
	if assets == nil {
		assets = []model.Asset{}
	}
	jsonResponse(w, http.StatusOK, assets)
}

// Create handles POST /api/assets.
func (h *AssetsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AssetNo == "" || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "asset_no and name required")
		return
	}

	params, err := req.params()
	if err != nil {
		jsonError(w, http.StatusBadRequest, "purchase_date must be YYYY-MM-DD")
		return
	}

	var actorID *int64
	if claims := GetClaims(r.Context()); claims != nil {
		actorID = &claims.UserID
	}

	asset, err := store.CreateAsset(r.Context(), h.DB, params, actorID)
	if err != nil {
		jsonError(w, http.StatusConflict, "asset number already exists")
		return
	}

	slog.Info("asset created", "asset_no", asset.AssetNo, "name", asset.Name)
	jsonResponse(w, http.StatusCreated, asset)
}

// Get handles GET /api/assets/{id}.
func (h *AssetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset ID")
		return
	}

	asset, err := store.GetAsset(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get asset")
		return
	}
	if asset == nil {
		jsonError(w, http.StatusNotFound, "asset not found")
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// Update handles PUT /api/assets/{id}.
func (h *AssetsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset ID")
		return
	}

	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AssetNo == "" || req.Name == "" {
		jsonError(w, http.StatusBadRequest, "asset_no and name required")
		return
	}

	params, err := req.params()
	if err != nil {
		jsonError(w, http.StatusBadRequest, "purchase_date must be YYYY-MM-DD")
		return
	}

	if err := store.UpdateAsset(r.Context(), h.DB, id, params); err != nil {
		storeError(w, err, "failed to update asset")
		return
	}

	asset, err := store.GetAsset(r.Context(), h.DB, id)
	if err != nil || asset == nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// Retire handles DELETE /api/assets/{id}. Assets with units on loan
// cannot be retired.
func (h *AssetsHandler) Retire(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset ID")
		return
	}

	if err := store.RetireAsset(r.Context(), h.DB, id); err != nil {
		storeError(w, err, "failed to retire asset")
		return
	}

	slog.Info("asset retired", "asset_id", id)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "asset retired"})
}

// UploadPhoto handles PUT /api/assets/{id}/photo.
func (h *AssetsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset ID")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetAssetPhoto(r.Context(), h.DB, id, processed.Data, processed.MIME); err != nil {
		storeError(w, err, "failed to save photo")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/assets/{id}/photo.
func (h *AssetsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset ID")
		return
	}

	data, mime, err := store.GetAssetPhoto(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
