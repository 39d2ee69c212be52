package repository

import (
	"context"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
)

// TableMutation edits a locked copy of a table. Returning false leaves the
// stored row untouched; returning an error aborts without writing.
type TableMutation func(table *entity.Table) (changed bool, err error)

// TableRepository persists table sessions. Writes always carry status and
// orders together in one statement.
type TableRepository interface {
	// Provision creates tables 1..count that do not exist yet
	Provision(ctx context.Context, count int) error
	List(ctx context.Context) ([]entity.Table, error)
	// GetByID returns (nil, nil) for an unknown table
	GetByID(ctx context.Context, id int) (*entity.Table, error)
	// SaveOrder overwrites status and orders. Returns (nil, nil) for an unknown table.
	SaveOrder(ctx context.Context, id int, status enum.TableStatus, orders entity.OrderLines) (*entity.Table, error)
	// Mutate runs fn against the current row while holding it exclusively and
	// returns the resulting table. Returns (nil, nil) for an unknown table.
	Mutate(ctx context.Context, id int, fn TableMutation) (*entity.Table, error)
}
