package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item
type Product struct {
	ID        string          `gorm:"size:64;primaryKey" json:"id" yaml:"id"`
	Name      string          `gorm:"size:255;not null;index" json:"name" yaml:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price" yaml:"price"`
	Category  string          `gorm:"size:100;index" json:"category" yaml:"category"`
	Image     string          `gorm:"size:1024" json:"image" yaml:"image"`
	CreatedAt time.Time       `json:"created_at" yaml:"-"`
	UpdatedAt time.Time       `json:"updated_at" yaml:"-"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// RemovedProductName is shown for order lines whose product left the catalog.
const RemovedProductName = "Removed"

// ProductFilter narrows a catalog listing. Search matches name or category,
// case-insensitively.
type ProductFilter struct {
	Search   string
	Category string
}
