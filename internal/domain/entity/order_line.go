package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderLine is one product's accumulated quantity and locked-in unit price
type OrderLine struct {
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time"`
}

// Subtotal is PriceAtTime × Quantity
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.PriceAtTime.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderLines is a line collection keyed by product id. Every mutating method
// returns a new collection and leaves the receiver untouched, so a failed
// store write never leaks into the caller's copy.
type OrderLines []OrderLine

// Add increments the product's line, or appends a new one snapshotting price.
// An existing line keeps its original price.
func (ls OrderLines) Add(productID string, price decimal.Decimal) OrderLines {
	return ls.AddQuantity(productID, 1, price)
}

func (ls OrderLines) AddQuantity(productID string, qty int, price decimal.Decimal) OrderLines {
	out := ls.Clone()
	if qty < 1 {
		return out
	}
	for i := range out {
		if out[i].ProductID == productID {
			out[i].Quantity += qty
			return out
		}
	}
	return append(out, OrderLine{ProductID: productID, Quantity: qty, PriceAtTime: price})
}

// Remove takes one unit off the product's line, dropping the line at zero.
// changed is false when the product is not present.
func (ls OrderLines) Remove(productID string) (out OrderLines, changed bool) {
	i := ls.index(productID)
	if i < 0 {
		return ls.Clone(), false
	}
	out = ls.Clone()
	if out[i].Quantity > 1 {
		out[i].Quantity--
		return out, true
	}
	return append(out[:i], out[i+1:]...), true
}

// RemoveAll drops the product's line regardless of quantity
func (ls OrderLines) RemoveAll(productID string) (out OrderLines, changed bool) {
	i := ls.index(productID)
	if i < 0 {
		return ls.Clone(), false
	}
	out = ls.Clone()
	return append(out[:i], out[i+1:]...), true
}

func (ls OrderLines) Find(productID string) (OrderLine, bool) {
	if i := ls.index(productID); i >= 0 {
		return ls[i], true
	}
	return OrderLine{}, false
}

func (ls OrderLines) index(productID string) int {
	for i := range ls {
		if ls[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Total sums every line's subtotal
func (ls OrderLines) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range ls {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Units is the number of items across all lines
func (ls OrderLines) Units() int {
	n := 0
	for _, l := range ls {
		n += l.Quantity
	}
	return n
}

// Clone returns an independent copy. The result is never nil so it encodes
// as [] rather than null.
func (ls OrderLines) Clone() OrderLines {
	out := make(OrderLines, len(ls))
	copy(out, ls)
	return out
}

// Validate checks the collection invariants: positive quantities,
// non-negative prices and unique product ids.
func (ls OrderLines) Validate() error {
	seen := make(map[string]struct{}, len(ls))
	for _, l := range ls {
		if l.ProductID == "" {
			return errors.New("order line has no product_id")
		}
		if l.Quantity < 1 {
			return fmt.Errorf("order line %s has quantity %d", l.ProductID, l.Quantity)
		}
		if l.PriceAtTime.IsNegative() {
			return fmt.Errorf("order line %s has a negative price", l.ProductID)
		}
		if _, dup := seen[l.ProductID]; dup {
			return fmt.Errorf("product %s appears in more than one line", l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
	}
	return nil
}

// storedLine also reads the camelCase keys written by earlier releases.
type storedLine struct {
	ProductID         string           `json:"product_id"`
	LegacyProductID   string           `json:"productId"`
	Quantity          int              `json:"quantity"`
	PriceAtTime       *decimal.Decimal `json:"price_at_time"`
	LegacyPriceAtTime *decimal.Decimal `json:"priceAtTime"`
}

// Value encodes the collection for a JSONB column
func (ls OrderLines) Value() (driver.Value, error) {
	data, err := json.Marshal(ls.Clone())
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (ls *OrderLines) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*ls = OrderLines{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into OrderLines", value)
	}

	var rows []storedLine
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("decode order lines: %w", err)
	}
	out := make(OrderLines, 0, len(rows))
	for _, r := range rows {
		line := OrderLine{ProductID: r.ProductID, Quantity: r.Quantity}
		if line.ProductID == "" {
			line.ProductID = r.LegacyProductID
		}
		switch {
		case r.PriceAtTime != nil:
			line.PriceAtTime = *r.PriceAtTime
		case r.LegacyPriceAtTime != nil:
			line.PriceAtTime = *r.LegacyPriceAtTime
		}
		out = append(out, line)
	}
	*ls = out
	return nil
}

// GormDataType maps the collection to a jsonb column
func (OrderLines) GormDataType() string {
	return "jsonb"
}
