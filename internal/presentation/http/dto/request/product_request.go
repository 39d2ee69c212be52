package request

import "github.com/shopspring/decimal"

// UpsertProductRequest represents a product create-or-replace request
type UpsertProductRequest struct {
	ID       string          `json:"id" binding:"omitempty,max=64"`
	Name     string          `json:"name" binding:"required,min=1,max=255"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category" binding:"omitempty,max=100"`
	Image    string          `json:"image" binding:"omitempty,max=1024"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Fresh    bool   `form:"fresh"`
}
