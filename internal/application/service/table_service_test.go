package service

import (
	"context"
	"testing"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/domain/enum"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var burger = entity.Product{ID: "A", Name: "Burger", Price: dec("10.00"), Category: "Food"}

func TestAddItemTwiceMergesIntoOneLine(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()

	_, err := f.tableService.AddItem(ctx, 1, "A")
	require.NoError(t, err)
	table, err := f.tableService.AddItem(ctx, 1, "A")
	require.NoError(t, err)

	require.Len(t, table.Orders, 1)
	assert.Equal(t, 2, table.Orders[0].Quantity)
	assert.True(t, table.Orders[0].PriceAtTime.Equal(dec("10.00")))
	assert.True(t, table.Total().Equal(dec("20.00")))
	assert.Equal(t, enum.TableStatusOccupied, table.Status)
	assert.Equal(t, *table, f.table(t, 1))
}

func TestAddItemKeepsOpeningPrice(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()

	_, err := f.tableService.AddItem(ctx, 3, "A")
	require.NoError(t, err)
	_, err = f.productService.UpsertProduct(ctx, &UpsertProductInput{ID: "A", Name: "Burger", Price: dec("12.50")})
	require.NoError(t, err)

	table, err := f.tableService.AddItem(ctx, 3, "A")
	require.NoError(t, err)
	assert.True(t, table.Orders[0].PriceAtTime.Equal(dec("10.00")))
	assert.True(t, table.Total().Equal(dec("20.00")))
}

func TestAddItemRejectsUnknownProductAndTable(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()

	_, err := f.tableService.AddItem(ctx, 1, "ghost")
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidOperation))

	_, err = f.tableService.AddItem(ctx, 99, "A")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	assert.Empty(t, f.table(t, 1).Orders)
}

func TestRemoveItem(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()

	_, err := f.tableService.AddItem(ctx, 2, "A")
	require.NoError(t, err)
	_, err = f.tableService.AddItem(ctx, 2, "A")
	require.NoError(t, err)

	table, err := f.tableService.RemoveItem(ctx, 2, "A")
	require.NoError(t, err)
	assert.Equal(t, 1, table.Orders[0].Quantity)

	table, err = f.tableService.RemoveItem(ctx, 2, "A")
	require.NoError(t, err)
	assert.Empty(t, table.Orders)
	assert.Equal(t, enum.TableStatusFree, table.Status)

	again, err := f.tableService.RemoveItem(ctx, 2, "A")
	require.NoError(t, err)
	assert.Equal(t, *table, *again)

	_, err = f.tableService.RemoveItem(ctx, 42, "A")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestStoreFailureLeavesTableUnchanged(t *testing.T) {
	f := newFixture(t, burger)
	_, err := f.tableService.AddItem(context.Background(), 1, "A")
	require.NoError(t, err)
	before := f.table(t, 1)

	view, err := f.tableService.ListTables(context.Background(), false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.tableService.AddItem(ctx, 1, "A")
	assert.True(t, apperror.IsKind(err, apperror.KindStoreUnavailable))

	assert.Equal(t, before, f.table(t, 1))
	cached, err := f.tableService.ListTables(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, view.Value, cached.Value)
}

func TestListTablesIsWrittenThrough(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()

	view, err := f.tableService.ListTables(ctx, false)
	require.NoError(t, err)
	require.Len(t, view.Value, 12)
	assert.Empty(t, view.Value[0].Orders)

	_, err = f.tableService.AddItem(ctx, 1, "A")
	require.NoError(t, err)

	view, err = f.tableService.ListTables(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, enum.TableStatusOccupied, view.Value[0].Status)
	assert.Len(t, view.Value[0].Orders, 1)
}

func TestClearTable(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()

	_, err := f.tableService.AddItem(ctx, 5, "A")
	require.NoError(t, err)

	table, err := f.tableService.ClearTable(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, enum.TableStatusFree, table.Status)
	assert.Empty(t, f.table(t, 5).Orders)

	_, err = f.tableService.ClearTable(ctx, 13)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestSaveOrderRejectsInconsistentPairs(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()
	lines := entity.OrderLines{{ProductID: "A", Quantity: 1, PriceAtTime: dec("10")}}

	_, err := f.tableService.SaveOrder(ctx, 1, enum.TableStatusFree, lines)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = f.tableService.SaveOrder(ctx, 1, enum.TableStatusOccupied, entity.OrderLines{})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	dup := append(lines.Clone(), lines[0])
	_, err = f.tableService.SaveOrder(ctx, 1, enum.TableStatusOccupied, dup)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	table, err := f.tableService.SaveOrder(ctx, 1, enum.TableStatusOccupied, lines)
	require.NoError(t, err)
	assert.Equal(t, lines, table.Orders)
}
