package news

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/manukanwetan/umkm-api/app/api"
	"github.com/manukanwetan/umkm-api/app/storage"
	"github.com/manukanwetan/umkm-api/models"
)

const (
	previewLimit = 6
	otherLimit   = 3
)

type NewsResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type NewsProvider interface {
	GetAll() ([]models.News, error)
	GetLatest(limit int) ([]models.News, error)
	GetByID(id string) (*models.News, error)
	GetOther(excludeID string, limit int) ([]models.News, error)
	Create(news *models.News) error
	Update(news *models.News) error
	Delete(id string) error
}

type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type NewsHandler struct {
	news   NewsProvider
	images ImageStore
	log    zerolog.Logger
}

func NewNewsHandler(n NewsProvider, images ImageStore, log zerolog.Logger) *NewsHandler {
	return &NewsHandler{news: n, images: images, log: log}
}

func (h *NewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.news.GetAll()
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}
	if len(items) == 0 {
		api.Message(w, http.StatusNotFound, "no news")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "news fetched", Data: toResponses(items)})
}

func (h *NewsHandler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	items, err := h.news.GetLatest(previewLimit)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}
	if len(items) == 0 {
		api.Message(w, http.StatusNotFound, "no news")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "news fetched", Data: toResponses(items)})
}

func (h *NewsHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	item, err := h.news.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrNewsNotFound) {
			api.Message(w, http.StatusNotFound, "news not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "news fetched", Data: toResponse(item)})
}

func (h *NewsHandler) HandleOther(w http.ResponseWriter, r *http.Request) {
	items, err := h.news.GetOther(r.PathValue("id"), otherLimit)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "news fetched", Data: toResponses(items)})
}

func (h *NewsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	key := storage.NewKey(header.Filename)
	url, err := h.images.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "image upload failed")
		return
	}

	item := &models.News{
		ID:       uuid.NewString(),
		Title:    r.FormValue("title"),
		Content:  r.FormValue("content"),
		Image:    &url,
		ImageKey: &key,
	}
	if err := h.news.Create(item); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to create news")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "news created", Data: toResponse(item)})
}

func (h *NewsHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	item, err := h.news.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrNewsNotFound) {
			api.Message(w, http.StatusNotFound, "news not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	// Title and content are always overwritten with the supplied values.
	item.Title = r.FormValue("title")
	item.Content = r.FormValue("content")

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		if item.ImageKey != nil {
			if err := h.images.Delete(r.Context(), *item.ImageKey); err != nil {
				h.log.Warn().Err(err).Str("key", *item.ImageKey).
					Str("cleanup", "news-edit").Msg("failed to delete old image")
			}
		}
		key := storage.NewKey(header.Filename)
		url, err := h.images.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
		if err != nil {
			api.Message(w, http.StatusInternalServerError, "image upload failed")
			return
		}
		item.Image = &url
		item.ImageKey = &key
	}

	if err := h.news.Update(item); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to update news")
		return
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "news updated", Data: toResponse(item)})
}

func (h *NewsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	item, err := h.news.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrNewsNotFound) {
			api.Message(w, http.StatusNotFound, "news not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}

	// Unlike the business flows, a failed blob delete here aborts the
	// whole operation and keeps the record.
	if item.ImageKey != nil {
		if err := h.images.Delete(r.Context(), *item.ImageKey); err != nil {
			api.Message(w, http.StatusInternalServerError, "failed to delete news image")
			return
		}
	}
	if err := h.news.Delete(item.ID); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to delete news")
		return
	}
	api.Message(w, http.StatusOK, "news deleted")
}

func toResponse(n *models.News) NewsResponse {
	return NewsResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Image:     n.Image,
		CreatedAt: n.CreatedAt,
	}
}

func toResponses(items []models.News) []NewsResponse {
	responses := make([]NewsResponse, len(items))
	for i := range items {
		responses[i] = toResponse(&items[i])
	}
	return responses
}
