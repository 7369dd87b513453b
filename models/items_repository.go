package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemsRepository struct {
	db *gorm.DB
}

// ErrItemNotFound is returned when an item is not found.
var ErrItemNotFound = errors.New("item not found")

type ItemFilters struct {
	CategoryID *uint
	Vendor     string
	Active     *bool
	Search     string
}

func NewItemsRepository(db *gorm.DB) *ItemsRepository {
	return &ItemsRepository{
		db: db,
	}
}

// preloadImages loads images in display order, ties broken by the primary flag.
func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "order"}},
		{Column: clause.Column{Name: "is_primary"}},
	}})
}

func (r *ItemsRepository) GetActiveItems(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := r.db.WithContext(ctx).
		Preload("Images", preloadImages).
		Preload("Category").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemsRepository) GetByID(ctx context.Context, id uint) (*Item, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *ItemsRepository) GetActiveByID(ctx context.Context, id uint) (*Item, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true))
}

func (r *ItemsRepository) first(query *gorm.DB) (*Item, error) {
	var item Item
	if err := query.
		Preload("Images", preloadImages).
		Preload("Category").
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err // Other DB error
	}
	return &item, nil
}

// relatedTo matches other active items in the same category as item.
// Uncategorized items are related to the other uncategorized ones.
func relatedTo(item *Item) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_active = ? AND id <> ?", true, item.ID)
		if item.CategoryID == nil {
			return db.Where("category_id IS NULL")
		}
		return db.Where("category_id = ?", *item.CategoryID)
	}
}

// GetRelatedItems returns active items sharing the category of item, newest first.
func (r *ItemsRepository) GetRelatedItems(ctx context.Context, item *Item, limit int) ([]Item, error) {
	var items []Item
	if err := r.db.WithContext(ctx).
		Preload("Images", preloadImages).
		Scopes(relatedTo(item)).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItemsRepository) GetFilteredItems(ctx context.Context, offset, limit int, filters ItemFilters) ([]Item, int64, error) {
	var items []Item
	var total int64

	query := r.db.WithContext(ctx).Model(&Item{})

	// Filter
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Vendor != "" {
		query = query.Where("vendor = ?", filters.Vendor)
	}
	if filters.Active != nil {
		query = query.Where("is_active = ?", *filters.Active)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR vendor ILIKE ?", pattern, pattern)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply pagination
	if err := query.
		Preload("Category").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *ItemsRepository) CreateItem(ctx context.Context, item *Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemsRepository) DeleteItem(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&ItemImage{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Item{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrItemNotFound
		}
		return nil
	})
}
