package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidPrice is returned when an item price is below the minimum of 0.01.
var ErrInvalidPrice = errors.New("price must be at least 0.01")

var minPrice = decimal.RequireFromString("0.01")

// Item represents a product listed in the store.
// Prices are stored as exact decimals; CategoryID is nil once its category is deleted.
type Item struct {
	ID            uint            `gorm:"primaryKey"`
	Title         string          `gorm:"size:200;not null"`
	Vendor        string          `gorm:"size:100;not null;default:Amazon"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CurrentPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity      uint            `gorm:"not null"`
	CategoryID    *uint           `gorm:"index"`
	Category      *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Description   string          `gorm:"type:text"`
	IsActive      bool            `gorm:"not null"`
	Images        []ItemImage     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const (
	DefaultVendor   = "Amazon"
	DefaultQuantity = 1
)

// NewItem returns an active item with the default vendor and a quantity of one.
// Quantity and IsActive have no gorm default tag, so 0 and false are stored as given.
func NewItem(title string, originalPrice, currentPrice decimal.Decimal) *Item {
	return &Item{
		Title:         title,
		Vendor:        DefaultVendor,
		OriginalPrice: originalPrice,
		CurrentPrice:  currentPrice,
		Quantity:      DefaultQuantity,
		IsActive:      true,
	}
}

func (i *Item) TableName() string {
	return "items"
}

// DiscountPercentage returns the relative reduction from the original price,
// rounded to two decimal places.
func (i Item) DiscountPercentage() decimal.Decimal {
	if i.OriginalPrice.IsNegative() || i.OriginalPrice.IsZero() {
		return decimal.Zero
	}
	return i.OriginalPrice.Sub(i.CurrentPrice).
		Div(i.OriginalPrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// DiscountAmount returns how much cheaper the item is than its original price.
func (i Item) DiscountAmount() decimal.Decimal {
	return i.OriginalPrice.Sub(i.CurrentPrice)
}

// Validate checks the price constraints enforced on write.
func (i *Item) Validate() error {
	if i.OriginalPrice.LessThan(minPrice) || i.CurrentPrice.LessThan(minPrice) {
		return ErrInvalidPrice
	}
	return nil
}

// PrimaryImage returns the image flagged as primary, falling back to the first one.
func (i Item) PrimaryImage() *ItemImage {
	for idx := range i.Images {
		if i.Images[idx].IsPrimary {
			return &i.Images[idx]
		}
	}
	if len(i.Images) > 0 {
		return &i.Images[0]
	}
	return nil
}

// ItemImage is a picture attached to an item, displayed by Order.
type ItemImage struct {
	ID        uint   `gorm:"primaryKey"`
	ItemID    uint   `gorm:"not null;index"`
	Image     string `gorm:"size:255;not null"`
	AltText   string `gorm:"size:200"`
	IsPrimary bool   `gorm:"not null;default:false"`
	Order     uint   `gorm:"not null;default:0"`
}

func (i *ItemImage) TableName() string {
	return "item_images"
}
