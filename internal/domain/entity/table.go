package entity

import (
	"fmt"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Table is a dining table's current consumption. Tables are provisioned once
// and never created or deleted afterwards.
type Table struct {
	ID        int              `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Status    enum.TableStatus `gorm:"type:varchar(20);not null;default:'Free'" json:"status"`
	Orders    OrderLines       `gorm:"type:jsonb;not null;default:'[]'" json:"orders"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// TableName returns the table name for the Table model
func (Table) TableName() string {
	return "restaurant_tables"
}

// NewTable returns a free table with no lines
func NewTable(id int) Table {
	return Table{ID: id, Status: enum.TableStatusFree, Orders: OrderLines{}}
}

// WithOrders returns a copy holding lines, with status derived from them
func (t Table) WithOrders(lines OrderLines) Table {
	t.Orders = lines.Clone()
	t.Status = StatusFor(t.Orders)
	return t
}

// AddItem adds one unit of product, snapshotting its price on a new line
func (t Table) AddItem(p Product) Table {
	return t.WithOrders(t.Orders.Add(p.ID, p.Price))
}

// RemoveItem takes one unit of the product off. changed is false, and the
// table is returned as-is, when the product is not on the table.
func (t Table) RemoveItem(productID string) (Table, bool) {
	lines, changed := t.Orders.Remove(productID)
	if !changed {
		return t, false
	}
	return t.WithOrders(lines), true
}

// Cleared returns the table freed with no lines
func (t Table) Cleared() Table {
	return t.WithOrders(OrderLines{})
}

func (t Table) Total() decimal.Decimal {
	return t.Orders.Total()
}

func (t Table) Clone() Table {
	t.Orders = t.Orders.Clone()
	return t
}

// Validate reports a status that disagrees with the lines
func (t Table) Validate() error {
	if err := t.Orders.Validate(); err != nil {
		return err
	}
	if want := StatusFor(t.Orders); t.Status != want {
		return fmt.Errorf("table %d is %s with %d lines", t.ID, t.Status, len(t.Orders))
	}
	return nil
}

// StatusFor derives occupancy: Occupied exactly when there are lines
func StatusFor(lines OrderLines) enum.TableStatus {
	if len(lines) > 0 {
		return enum.TableStatusOccupied
	}
	return enum.TableStatusFree
}
