package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/mytheresa/go-storefront/app/api"
	"github.com/mytheresa/go-storefront/models"
	"github.com/shopspring/decimal"
)

type Response struct {
	Total int    `json:"total"`
	Items []Item `json:"items"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Item struct {
	ID                 uint            `json:"id"`
	Title              string          `json:"title"`
	Vendor             string          `json:"vendor"`
	OriginalPrice      decimal.Decimal `json:"original_price"`
	CurrentPrice       decimal.Decimal `json:"current_price"`
	Quantity           uint            `json:"quantity"`
	Category           *Category       `json:"category"`
	IsActive           bool            `json:"is_active"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

type Image struct {
	Image     string `json:"image"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `json:"is_primary"`
	Order     uint   `json:"order"`
}

type ItemDetail struct {
	Item
	Description string  `json:"description"`
	Images      []Image `json:"images"`
}

type ItemProvider interface {
	GetFilteredItems(ctx context.Context, offset, limit int, filters models.ItemFilters) ([]models.Item, int64, error)
	GetByID(ctx context.Context, id uint) (*models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id uint) error
}

type CatalogHandler struct {
	repo ItemProvider
}

func NewCatalogHandler(r ItemProvider) *CatalogHandler {
	return &CatalogHandler{
		repo: r,
	}
}

func (h *CatalogHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/items", h.HandleGet)
	mux.HandleFunc("POST /api/items", h.HandleCreate)
	mux.HandleFunc("GET /api/items/{id}", h.HandleGetItem)
	mux.HandleFunc("DELETE /api/items/{id}", h.HandleDelete)
}

func toItem(i models.Item) Item {
	out := Item{
		ID:                 i.ID,
		Title:              i.Title,
		Vendor:             i.Vendor,
		OriginalPrice:      i.OriginalPrice,
		CurrentPrice:       i.CurrentPrice,
		Quantity:           i.Quantity,
		IsActive:           i.IsActive,
		DiscountPercentage: i.DiscountPercentage(),
		DiscountAmount:     i.DiscountAmount(),
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
	if i.Category != nil {
		out.Category = &Category{ID: i.Category.ID, Name: i.Category.Name}
	}
	return out
}

func toItemDetail(i models.Item) ItemDetail {
	images := make([]Image, len(i.Images))
	for idx, img := range i.Images {
		images[idx] = Image{
			Image:     img.Image,
			AltText:   img.AltText,
			IsPrimary: img.IsPrimary,
			Order:     img.Order,
		}
	}
	return ItemDetail{
		Item:        toItem(i),
		Description: i.Description,
		Images:      images,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	// Parse filters
	var filters models.ItemFilters

	if cStr := r.URL.Query().Get("category"); cStr != "" {
		if c, err := strconv.ParseUint(cStr, 10, 0); err == nil {
			id := uint(c)
			filters.CategoryID = &id
		}
	}

	if aStr := r.URL.Query().Get("active"); aStr != "" {
		if a, err := strconv.ParseBool(aStr); err == nil {
			filters.Active = &a
		}
	}

	filters.Vendor = r.URL.Query().Get("vendor")
	filters.Search = r.URL.Query().Get("q")

	res, total, err := h.repo.GetFilteredItems(r.Context(), offset, limit, filters)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to get items")
		return
	}

	items := make([]Item, len(res))
	for i, item := range res {
		items[i] = toItem(item)
	}

	api.WriteJSON(w, http.StatusOK, Response{
		Total: int(total),
		Items: items,
	})
}

func (h *CatalogHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "Item not found")
		return
	}

	item, err := h.repo.GetByID(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, models.ErrItemNotFound) {
			api.WriteError(w, http.StatusNotFound, "Item not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "Failed to retrieve item")
		return
	}

	api.WriteJSON(w, http.StatusOK, toItemDetail(*item))
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title         string          `json:"title"`
		Vendor        string          `json:"vendor"`
		OriginalPrice decimal.Decimal `json:"original_price"`
		CurrentPrice  decimal.Decimal `json:"current_price"`
		Quantity      *uint           `json:"quantity"`
		CategoryID    *uint           `json:"category_id"`
		Description   string          `json:"description"`
		IsActive      *bool           `json:"is_active"`
	}

	if !api.DecodeJSON(w, r, &input) {
		return
	}

	if input.Title == "" {
		api.WriteError(w, http.StatusBadRequest, "Missing title")
		return
	}

	item := models.NewItem(input.Title, input.OriginalPrice, input.CurrentPrice)
	item.CategoryID = input.CategoryID
	item.Description = input.Description
	if input.Vendor != "" {
		item.Vendor = input.Vendor
	}
	if input.Quantity != nil {
		item.Quantity = *input.Quantity
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}

	if err := h.repo.CreateItem(r.Context(), item); err != nil {
		if errors.Is(err, models.ErrInvalidPrice) {
			api.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "Failed to create item")
		return
	}

	api.WriteJSON(w, http.StatusCreated, toItem(*item))
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, "Item not found")
		return
	}

	if err := h.repo.DeleteItem(r.Context(), uint(id)); err != nil {
		if errors.Is(err, models.ErrItemNotFound) {
			api.WriteError(w, http.StatusNotFound, "Item not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "Failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
