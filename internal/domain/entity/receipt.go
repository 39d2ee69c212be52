package entity

import "github.com/shopspring/decimal"

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// Receipt is the printable view of a sale. It is composed at print time
// and never stored.
type Receipt struct {
	StoreName     string          `json:"store_name"`
	SaleID        string          `json:"sale_id"`
	Date          string          `json:"date"`
	Table         *int            `json:"table,omitempty"`
	Cashier       string          `json:"cashier,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	Items         []ReceiptItem   `json:"items"`
	Total         decimal.Decimal `json:"total"`
}
