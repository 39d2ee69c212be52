package request

import "github.com/shopspring/decimal"

// DirectSaleItemRequest is one cart line
type DirectSaleItemRequest struct {
	ProductID   string           `json:"product_id" binding:"required,max=64"`
	Quantity    int              `json:"quantity" binding:"required,min=1"`
	PriceAtTime *decimal.Decimal `json:"price_at_time"`
}

// DirectSaleRequest settles a walk-up cart
type DirectSaleRequest struct {
	Items         []DirectSaleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string                  `json:"payment_method" binding:"required"`
}

// SaleFilterRequest represents sale ledger filter parameters. From and To
// accept RFC 3339 timestamps or YYYY-MM-DD dates.
type SaleFilterRequest struct {
	From    string `form:"from"`
	To      string `form:"to"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Top     int    `form:"top"`
}
