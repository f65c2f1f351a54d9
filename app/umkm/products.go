package umkm

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/manukanwetan/umkm-api/app/api"
	"github.com/manukanwetan/umkm-api/app/storage"
	"github.com/manukanwetan/umkm-api/models"
)

type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Price       float64 `json:"price"`
	UmkmID      string  `json:"umkmId"`
}

func (h *UmkmHandler) HandleProductCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	umkmID := r.FormValue("umkmId")
	name := r.FormValue("name")
	priceInput := r.FormValue("price")
	if umkmID == "" || name == "" || priceInput == "" {
		api.Message(w, http.StatusBadRequest, "umkmId, name and price are required")
		return
	}
	price, err := parsePrice(priceInput)
	if err != nil {
		api.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	product := &models.Product{
		ID:     uuid.NewString(),
		Name:   name,
		Price:  price,
		UmkmID: umkmID,
	}
	if description := r.FormValue("description"); description != "" {
		product.Description = &description
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		key := storage.NewKey(header.Filename)
		url, err := h.images.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
		if err != nil {
			api.Message(w, http.StatusInternalServerError, "image upload failed")
			return
		}
		product.Image = &url
		product.ImageKey = &key
	}

	if err := h.products.Create(product); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "product created", Data: toProductResponse(product)})
}

func (h *UmkmHandler) HandleProductUpdate(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			api.Message(w, http.StatusNotFound, "product not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to fetch product")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	price, err := parsePrice(r.FormValue("price"))
	if err != nil {
		api.Message(w, http.StatusBadRequest, err.Error())
		return
	}
	description := r.FormValue("description")

	product.Name = r.FormValue("name")
	product.Description = &description
	product.Price = price

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		if product.ImageKey != nil && *product.ImageKey != "" {
			if err := h.images.Delete(r.Context(), *product.ImageKey); err != nil {
				h.log.Warn().Err(err).Str("key", *product.ImageKey).
					Str("cleanup", "product-update").Msg("failed to delete old image")
			}
		}
		key := storage.NewKey(header.Filename)
		url, err := h.images.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
		if err != nil {
			api.Message(w, http.StatusInternalServerError, "image upload failed")
			return
		}
		product.Image = &url
		product.ImageKey = &key
	}

	if err := h.products.Update(product); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "product updated", Data: toProductResponse(product)})
}

func parsePrice(input string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(input)
	if err != nil {
		return decimal.Decimal{}, errors.New("invalid price")
	}
	if price.IsNegative() {
		return decimal.Decimal{}, errors.New("price must not be negative")
	}
	return price, nil
}

func toProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image,
		Price:       p.Price.InexactFloat64(),
		UmkmID:      p.UmkmID,
	}
}
