// Package umkm serves the business directory: listing and detail reads,
// public registration, admin moderation, and the category and product
// sub-resources.
package umkm

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/manukanwetan/umkm-api/app/api"
	"github.com/manukanwetan/umkm-api/app/storage"
	"github.com/manukanwetan/umkm-api/models"
)

const (
	otherLimit   = 8
	previewLimit = 4
)

type UmkmProvider interface {
	Listings(activeOnly bool) ([]models.UmkmListing, error)
	Random(excludeID string, limit int) ([]models.UmkmListing, error)
	GetByID(id string) (*models.Umkm, error)
	Create(umkm *models.Umkm) error
	Update(umkm *models.Umkm) error
	Delete(id string) error
	SetStatus(id, status string) (*models.Umkm, error)
}

type CategoryProvider interface {
	GetAll() ([]models.Category, error)
	GetByID(id string) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	Create(category *models.Category) error
	Delete(id string) error
	CountReferences(id string) (int64, error)
}

type ProductProvider interface {
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
}

type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type UmkmHandler struct {
	umkm       UmkmProvider
	categories CategoryProvider
	products   ProductProvider
	images     ImageStore
	log        zerolog.Logger
}

func NewUmkmHandler(u UmkmProvider, c CategoryProvider, p ProductProvider, images ImageStore, log zerolog.Logger) *UmkmHandler {
	return &UmkmHandler{umkm: u, categories: c, products: p, images: images, log: log}
}

// ListItem is the public listing row. HargaTermurah is null for a
// business without products.
type ListItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Image         string   `json:"image"`
	Address       string   `json:"address"`
	Description   string   `json:"description"`
	JumlahProduk  int64    `json:"jumlahProduk"`
	Category      string   `json:"category"`
	HargaTermurah *float64 `json:"hargaTermurah"`
}

// AdminItem extends the public row with moderation fields.
type AdminItem struct {
	ListItem
	Status string `json:"status"`
	Phone  string `json:"phone"`
}

// SampleItem is the shape of the random other/preview endpoints.
type SampleItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	Phone         string   `json:"phone"`
	Description   string   `json:"description"`
	Status        string   `json:"status"`
	Image         string   `json:"image"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	Category      string   `json:"category"`
	JumlahProduk  int64    `json:"jumlahProduk"`
	HargaTermurah *float64 `json:"hargaTermurah"`
}

func (h *UmkmHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.umkm.Listings(true)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch businesses")
		return
	}
	if len(rows) == 0 {
		api.Message(w, http.StatusNotFound, "no businesses found")
		return
	}
	items := make([]ListItem, len(rows))
	for i, row := range rows {
		items[i] = toListItem(row)
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "businesses fetched", Data: items})
}

func (h *UmkmHandler) HandleAdminList(w http.ResponseWriter, r *http.Request) {
	rows, err := h.umkm.Listings(false)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch businesses")
		return
	}
	if len(rows) == 0 {
		api.Message(w, http.StatusNotFound, "no businesses found")
		return
	}
	items := make([]AdminItem, len(rows))
	for i, row := range rows {
		items[i] = AdminItem{ListItem: toListItem(row), Status: row.Status, Phone: row.Phone}
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "businesses fetched", Data: items})
}

func (h *UmkmHandler) HandleOther(w http.ResponseWriter, r *http.Request) {
	rows, err := h.umkm.Random(r.PathValue("id"), otherLimit)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch businesses")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "businesses fetched", Data: toSampleItems(rows)})
}

func (h *UmkmHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	rows, err := h.umkm.Random("", previewLimit)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch businesses")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "businesses fetched", Data: toSampleItems(rows)})
}

type DetailResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Address     string            `json:"address"`
	Phone       string            `json:"phone"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Image       string            `json:"image"`
	Latitude    *float64          `json:"latitude"`
	Longitude   *float64          `json:"longitude"`
	CategoryID  string            `json:"categoryId"`
	Category    string            `json:"category"`
	Products    []ProductResponse `json:"products"`
}

func (h *UmkmHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	umkm, err := h.umkm.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrUmkmNotFound) {
			api.Message(w, http.StatusNotFound, "business not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to fetch business")
		return
	}

	products := make([]ProductResponse, len(umkm.Products))
	for i := range umkm.Products {
		products[i] = toProductResponse(&umkm.Products[i])
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "business fetched", Data: DetailResponse{
		ID:          umkm.ID,
		Name:        umkm.Name,
		Address:     umkm.Address,
		Phone:       umkm.Phone,
		Description: umkm.Description,
		Status:      umkm.Status,
		Image:       umkm.Image,
		Latitude:    umkm.Latitude,
		Longitude:   umkm.Longitude,
		CategoryID:  umkm.CategoryID,
		Category:    umkm.Category.Name,
		Products:    products,
	}})
}

func (h *UmkmHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		api.Message(w, http.StatusBadRequest, "image file missing")
		return
	}
	defer file.Close()

	status := r.FormValue("status")
	if status == "" {
		status = models.StatusPending
	}
	if status != models.StatusPending && status != models.StatusActive {
		api.Message(w, http.StatusBadRequest, "invalid status")
		return
	}
	latitude, err := parseOptionalFloat(r.FormValue("latitude"))
	if err != nil {
		api.Message(w, http.StatusBadRequest, "invalid latitude")
		return
	}
	longitude, err := parseOptionalFloat(r.FormValue("longitude"))
	if err != nil {
		api.Message(w, http.StatusBadRequest, "invalid longitude")
		return
	}

	key := storage.NewKey(header.Filename)
	url, err := h.images.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "image upload failed")
		return
	}

	umkm := &models.Umkm{
		ID:          models.NewShortID(),
		Name:        r.FormValue("name"),
		Address:     r.FormValue("address"),
		Phone:       r.FormValue("phone"),
		Description: r.FormValue("description"),
		Status:      status,
		Image:       url,
		ImageKey:    key,
		Latitude:    latitude,
		Longitude:   longitude,
		CategoryID:  r.FormValue("categoryId"),
	}
	if err := h.umkm.Create(umkm); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to register business")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "business registered", Data: toUmkmData(umkm)})
}

func (h *UmkmHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	umkm, err := h.umkm.SetStatus(r.PathValue("id"), models.StatusActive)
	if err != nil {
		if errors.Is(err, models.ErrUmkmNotFound) {
			api.Message(w, http.StatusNotFound, "business not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to approve business")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "business approved", Data: toUmkmData(umkm)})
}

func (h *UmkmHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	umkm, err := h.umkm.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrUmkmNotFound) {
			api.Message(w, http.StatusNotFound, "business not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to fetch business")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	latitude, err := parseOptionalFloat(r.FormValue("latitude"))
	if err != nil {
		api.Message(w, http.StatusBadRequest, "invalid latitude")
		return
	}
	longitude, err := parseOptionalFloat(r.FormValue("longitude"))
	if err != nil {
		api.Message(w, http.StatusBadRequest, "invalid longitude")
		return
	}

	// Scalar fields are always overwritten with the supplied values.
	umkm.Name = r.FormValue("name")
	umkm.Address = r.FormValue("address")
	umkm.Phone = r.FormValue("phone")
	umkm.Description = r.FormValue("description")
	umkm.CategoryID = r.FormValue("categoryId")
	umkm.Latitude = latitude
	umkm.Longitude = longitude

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		if umkm.ImageKey != "" {
			if err := h.images.Delete(r.Context(), umkm.ImageKey); err != nil {
				h.log.Warn().Err(err).Str("key", umkm.ImageKey).
					Str("cleanup", "umkm-update").Msg("failed to delete old image")
			}
		}
		key := storage.NewKey(header.Filename)
		url, err := h.images.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
		if err != nil {
			api.Message(w, http.StatusInternalServerError, "image upload failed")
			return
		}
		umkm.Image = url
		umkm.ImageKey = key
	}

	if err := h.umkm.Update(umkm); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to update business")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "business updated", Data: toUmkmData(umkm)})
}

func (h *UmkmHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	umkm, err := h.umkm.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrUmkmNotFound) {
			api.Message(w, http.StatusNotFound, "business not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to fetch business")
		return
	}

	// Image cleanup is best-effort per blob so the record deletion always
	// gets its chance to complete.
	for i := range umkm.Products {
		key := umkm.Products[i].ImageKey
		if key == nil || *key == "" {
			continue
		}
		if err := h.images.Delete(r.Context(), *key); err != nil {
			h.log.Warn().Err(err).Str("key", *key).
				Str("cleanup", "umkm-delete").Msg("failed to delete product image")
		}
	}
	if umkm.ImageKey != "" {
		if err := h.images.Delete(r.Context(), umkm.ImageKey); err != nil {
			h.log.Warn().Err(err).Str("key", umkm.ImageKey).
				Str("cleanup", "umkm-delete").Msg("failed to delete business image")
		}
	}

	if err := h.umkm.Delete(umkm.ID); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to delete business")
		return
	}
	api.Message(w, http.StatusOK, "business deleted")
}

// toUmkmData is the write-path response shape, mirroring the stored record.
func toUmkmData(u *models.Umkm) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"name":        u.Name,
		"address":     u.Address,
		"phone":       u.Phone,
		"description": u.Description,
		"status":      u.Status,
		"image":       u.Image,
		"latitude":    u.Latitude,
		"longitude":   u.Longitude,
		"categoryId":  u.CategoryID,
	}
}

func toListItem(row models.UmkmListing) ListItem {
	return ListItem{
		ID:            row.ID,
		Name:          row.Name,
		Image:         row.Image,
		Address:       row.Address,
		Description:   row.Description,
		JumlahProduk:  row.JumlahProduk,
		Category:      row.Category,
		HargaTermurah: nullDecimalToFloat(row.HargaTermurah),
	}
}

func toSampleItems(rows []models.UmkmListing) []SampleItem {
	items := make([]SampleItem, len(rows))
	for i, row := range rows {
		items[i] = SampleItem{
			ID:            row.ID,
			Name:          row.Name,
			Address:       row.Address,
			Phone:         row.Phone,
			Description:   row.Description,
			Status:        row.Status,
			Image:         row.Image,
			Latitude:      row.Latitude,
			Longitude:     row.Longitude,
			Category:      row.Category,
			JumlahProduk:  row.JumlahProduk,
			HargaTermurah: nullDecimalToFloat(row.HargaTermurah),
		}
	}
	return items
}

func nullDecimalToFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func parseOptionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
