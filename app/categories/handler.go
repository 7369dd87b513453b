package categories

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/mytheresa/go-storefront/app/api"
	"github.com/mytheresa/go-storefront/models"
)

type CategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uint) error
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func (h *CategoryHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", h.HandleGetAll)
	mux.HandleFunc("POST /api/categories", h.HandleCreate)
	mux.HandleFunc("DELETE /api/categories/{id}", h.HandleDelete)
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			ID:   c.ID,
			Name: c.Name,
		}
	}

	api.WriteJSON(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}

	if !api.DecodeJSON(w, r, &input) {
		return
	}

	if input.Name == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing name")
		return
	}

	category := &models.Category{
		Name: input.Name,
	}

	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		if errors.Is(err, models.ErrCategoryExists) {
			api.WriteError(w, http.StatusConflict, "Category already exists")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	api.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Category created successfully",
	})
}

// HandleDelete removes a category. Its items stay in the catalog without one.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "Category not found")
		return
	}

	if err := h.repo.DeleteCategory(r.Context(), uint(id)); err != nil {
		if errors.Is(err, models.ErrCategoryNotFound) {
			api.WriteError(w, http.StatusNotFound, "Category not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
