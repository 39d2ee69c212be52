package entity

import "github.com/shopspring/decimal"

// Cart is the line collection of a walk-up sale. It has no status and is
// never persisted; the zero value is an empty cart. Checkout rebuilds it with
// AddLine; the remove methods model edits made on the client before checkout.
type Cart struct {
	lines OrderLines
}

func NewCart() *Cart {
	return &Cart{lines: OrderLines{}}
}

func (c *Cart) AddItem(p Product) {
	c.lines = c.lines.Add(p.ID, p.Price)
}

// AddLine merges qty units at the given price into the cart
func (c *Cart) AddLine(productID string, qty int, price decimal.Decimal) {
	c.lines = c.lines.AddQuantity(productID, qty, price)
}

// RemoveItem takes one unit off; it is a no-op for absent products
func (c *Cart) RemoveItem(productID string) bool {
	var changed bool
	c.lines, changed = c.lines.Remove(productID)
	return changed
}

// RemoveAllOfProduct strips the product's line regardless of quantity
func (c *Cart) RemoveAllOfProduct(productID string) bool {
	var changed bool
	c.lines, changed = c.lines.RemoveAll(productID)
	return changed
}

func (c *Cart) Total() decimal.Decimal {
	return c.lines.Total()
}

// Lines returns a copy of the current lines
func (c *Cart) Lines() OrderLines {
	return c.lines.Clone()
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = OrderLines{}
}
