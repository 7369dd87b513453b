package models

// Category groups items in the catalog.
// Names are unique; deleting a category detaches its items instead of removing them.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100;uniqueIndex;not null"`
}

func (c *Category) TableName() string {
	return "categories"
}
