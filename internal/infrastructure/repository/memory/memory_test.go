package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/sangkips/pdv-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductListSearchAndOrder(t *testing.T) {
	repo := NewProductRepository(
		entity.Product{ID: "3", Name: "Suco de laranja", Category: "Bebidas"},
		entity.Product{ID: "1", Name: "Coxinha", Category: "Salgados"},
		entity.Product{ID: "2", Name: "Água", Category: "Bebidas"},
	)
	ctx := context.Background()

	all, err := repo.List(ctx, entity.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Coxinha", "Suco de laranja", "Água"}, names(all))

	byCategory, err := repo.List(ctx, entity.ProductFilter{Search: "bebi"})
	require.NoError(t, err)
	assert.Len(t, byCategory, 2)

	byName, err := repo.List(ctx, entity.ProductFilter{Search: "COX"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Coxinha"}, names(byName))

	exact, err := repo.List(ctx, entity.ProductFilter{Category: "Salgados"})
	require.NoError(t, err)
	assert.Len(t, exact, 1)
}

func names(ps []entity.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestProductSaveAndDelete(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	p := &entity.Product{ID: "x", Name: "Pastel", Price: decimal.NewFromInt(8)}
	require.NoError(t, repo.Save(ctx, p))
	created := p.CreatedAt

	p.Price = decimal.NewFromInt(9)
	require.NoError(t, repo.Save(ctx, p))
	got, err := repo.GetByID(ctx, "x")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9).Equal(got.Price))
	assert.Equal(t, created, got.CreatedAt)

	deleted, err := repo.Delete(ctx, "x")
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = repo.Delete(ctx, "x")
	require.NoError(t, err)
	assert.False(t, deleted)

	got, err = repo.GetByID(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTableProvisionIsIdempotent(t *testing.T) {
	repo := NewTableRepository()
	ctx := context.Background()

	require.NoError(t, repo.Provision(ctx, 3))
	_, err := repo.SaveOrder(ctx, 2, enum.TableStatusOccupied, entity.OrderLines{{ProductID: "a", Quantity: 1}})
	require.NoError(t, err)
	require.NoError(t, repo.Provision(ctx, 4))

	tables, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 4)
	assert.Equal(t, enum.TableStatusOccupied, tables[1].Status, "provisioning keeps existing rows")
}

func TestTableMutate(t *testing.T) {
	repo := NewTableRepository()
	ctx := context.Background()
	require.NoError(t, repo.Provision(ctx, 1))

	coffee := entity.Product{ID: "c", Price: decimal.NewFromInt(5)}
	got, err := repo.Mutate(ctx, 1, func(tb *entity.Table) (bool, error) {
		*tb = tb.AddItem(coffee)
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, enum.TableStatusOccupied, got.Status)

	failing := errors.New("nope")
	_, err = repo.Mutate(ctx, 1, func(tb *entity.Table) (bool, error) {
		*tb = tb.Cleared()
		return false, failing
	})
	assert.ErrorIs(t, err, failing)

	stored, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, stored.Orders, 1, "failed mutation leaves the row untouched")

	_, err = repo.Mutate(ctx, 1, func(tb *entity.Table) (bool, error) {
		tb.Status = enum.TableStatusFree
		return true, nil
	})
	assert.True(t, apperror.IsKind(err, apperror.KindInternal))

	missing, err := repo.Mutate(ctx, 99, func(tb *entity.Table) (bool, error) { return true, nil })
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTableMutateSerialisesWriters(t *testing.T) {
	repo := NewTableRepository()
	ctx := context.Background()
	require.NoError(t, repo.Provision(ctx, 1))
	p := entity.Product{ID: "p", Price: decimal.NewFromInt(1)}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Mutate(ctx, 1, func(tb *entity.Table) (bool, error) {
				*tb = tb.AddItem(p)
				return true, nil
			})
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Orders[0].Quantity)
}

func TestTableReturnsCopies(t *testing.T) {
	repo := NewTableRepository()
	ctx := context.Background()
	require.NoError(t, repo.Provision(ctx, 1))
	_, err := repo.SaveOrder(ctx, 1, enum.TableStatusOccupied, entity.OrderLines{{ProductID: "a", Quantity: 1}})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	got.Orders[0].Quantity = 42

	again, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Orders[0].Quantity)
}

func TestSaleLedger(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewSaleRepository(
		entity.Sale{ID: "a", Timestamp: base.UnixMilli()},
		entity.Sale{ID: "b", Timestamp: base.Add(time.Hour).UnixMilli()},
		entity.Sale{ID: "c", Timestamp: base.Add(48 * time.Hour).UnixMilli()},
	)
	ctx := context.Background()

	all, err := repo.List(ctx, entity.SaleFilter{})
	require.NoError(t, err)
	assert.Equal(t, "c", all[0].ID, "newest first")

	day, err := repo.List(ctx, entity.SaleFilter{From: base, To: base.Add(24 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, day, 2)

	page, total, err := repo.Page(ctx, entity.SaleFilter{}, pagination.Params{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].ID)

	err = repo.Append(ctx, &entity.Sale{ID: "a"})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	assert.Equal(t, 3, repo.Len())
}

func TestSaleAppendStoresSnapshot(t *testing.T) {
	repo := NewSaleRepository()
	ctx := context.Background()
	sale := &entity.Sale{ID: "s", Items: entity.OrderLines{{ProductID: "a", Quantity: 1}}}
	require.NoError(t, repo.Append(ctx, sale))

	sale.Items[0].Quantity = 7

	got, err := repo.GetByID(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].Quantity)
}

func TestIdempotencyKeys(t *testing.T) {
	repo := NewIdempotencyRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "k", Actor: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &entity.IdempotencyKey{Key: "old", Actor: "u1", ExpiresAt: time.Now().Add(-time.Hour)}))

	got, err := repo.GetByKey(ctx, "k", "u1")
	require.NoError(t, err)
	require.NotNil(t, got)

	other, err := repo.GetByKey(ctx, "k", "u2")
	require.NoError(t, err)
	assert.Nil(t, other)

	n, err := repo.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUsers(t *testing.T) {
	repo := NewUserRepository(entity.User{ID: "2", Name: "Bruno"}, entity.User{ID: "1", Name: "Ana"})
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", users[0].Name)

	ok, err := repo.Delete(ctx, "2")
	require.NoError(t, err)
	assert.True(t, ok)
	u, err := repo.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Nil(t, u)
}
