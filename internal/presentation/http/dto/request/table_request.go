package request

import "github.com/sangkips/pdv-api/internal/domain/entity"

// AddItemRequest adds one unit of a product to a table
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required,max=64"`
}

// SettleRequest closes a table or cart with a payment method
type SettleRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// SaveOrderRequest overwrites a table's status and lines in one write
type SaveOrderRequest struct {
	Status string            `json:"status" binding:"required"`
	Orders entity.OrderLines `json:"orders"`
}

// TableListRequest represents table list parameters
type TableListRequest struct {
	Fresh bool `form:"fresh"`
}
