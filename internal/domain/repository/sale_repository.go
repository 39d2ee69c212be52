package repository

import (
	"context"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/pkg/pagination"
)

// SaleRepository is the append-only ledger. There is no update or delete.
type SaleRepository interface {
	Append(ctx context.Context, sale *entity.Sale) error
	// GetByID returns (nil, nil) for an unknown sale
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List returns every sale in the window, newest first
	List(ctx context.Context, filter entity.SaleFilter) ([]entity.Sale, error)
	// Page returns one page of the window, newest first, and the window size
	Page(ctx context.Context, filter entity.SaleFilter, params pagination.Params) ([]entity.Sale, int64, error)
}
