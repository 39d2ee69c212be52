package entity

import (
	"time"

	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Where a sale came from
const (
	SaleSourceTable  = "table"
	SaleSourceDirect = "direct"
)

// Sale is an immutable ledger record produced by settlement
type Sale struct {
	ID            string             `gorm:"size:36;primaryKey" json:"id"`
	Items         OrderLines         `gorm:"type:jsonb;not null" json:"items"`
	Total         decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod enum.PaymentMethod `gorm:"type:varchar(20);not null;index" json:"payment_method"`
	UserID        *string            `gorm:"size:64;index" json:"user_id,omitempty"`
	Source        string             `gorm:"size:16;not null;default:'table'" json:"source"`
	TableID       *int               `json:"table_id,omitempty"`
	// Timestamp is epoch milliseconds
	Timestamp     int64              `gorm:"not null;index" json:"timestamp"`
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

func (s Sale) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Clone returns a copy whose items share nothing with s
func (s Sale) Clone() Sale {
	s.Items = s.Items.Clone()
	if s.UserID != nil {
		id := *s.UserID
		s.UserID = &id
	}
	if s.TableID != nil {
		id := *s.TableID
		s.TableID = &id
	}
	return s
}

// SaleFilter restricts the ledger to [From, To). Zero bounds are open.
type SaleFilter struct {
	From time.Time
	To   time.Time
}

func (f SaleFilter) Contains(s Sale) bool {
	ts := s.Time()
	if !f.From.IsZero() && ts.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !ts.Before(f.To) {
		return false
	}
	return true
}
