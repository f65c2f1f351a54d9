package umkm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/manukanwetan/umkm-api/app/api"
	"github.com/manukanwetan/umkm-api/models"
)

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (h *UmkmHandler) HandleCategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.GetAll()
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}
	if len(categories) == 0 {
		api.Message(w, http.StatusNotFound, "no categories")
		return
	}
	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{ID: c.ID, Name: c.Name}
	}
	api.JSON(w, http.StatusOK, api.Response{Message: "categories fetched", Data: response})
}

func (h *UmkmHandler) HandleCategoryCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		api.Message(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		api.Message(w, http.StatusBadRequest, "category name must not be empty")
		return
	}

	if _, err := h.categories.GetByName(name); err == nil {
		api.Message(w, http.StatusBadRequest, "category already exists")
		return
	} else if !errors.Is(err, models.ErrCategoryNotFound) {
		api.Message(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	category := &models.Category{ID: uuid.NewString(), Name: name}
	if err := h.categories.Create(category); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to create category")
		return
	}
	api.JSON(w, http.StatusCreated, api.Response{
		Message: "category created",
		Data:    CategoryResponse{ID: category.ID, Name: category.Name},
	})
}

func (h *UmkmHandler) HandleCategoryDelete(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.GetByID(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			api.Message(w, http.StatusNotFound, "category not found")
			return
		}
		api.Message(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	references, err := h.categories.CountReferences(category.ID)
	if err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	if references > 0 {
		api.Message(w, http.StatusBadRequest,
			fmt.Sprintf("category %q cannot be deleted, it is still used by %d businesses", category.Name, references))
		return
	}

	if err := h.categories.Delete(category.ID); err != nil {
		api.Message(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	api.Message(w, http.StatusOK, "category deleted")
}
