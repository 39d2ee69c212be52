package service

import (
	"context"
	"testing"

	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertProductAssignsID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.productService.UpsertProduct(ctx, &UpsertProductInput{Name: " Coffee ", Price: dec("4.5"), Category: "Drinks"})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, "Coffee", product.Name)
	assert.Equal(t, "4.50", product.Price.StringFixed(2))

	got, err := f.productService.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", got.Category)
}

func TestUpsertProductValidates(t *testing.T) {
	f := newFixture(t)

	_, err := f.productService.UpsertProduct(context.Background(), &UpsertProductInput{Name: "", Price: dec("-1")})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Len(t, appErr.Errors, 2)
}

func TestUpsertKeepsCreatedAt(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()

	first, err := f.productService.UpsertProduct(ctx, &UpsertProductInput{ID: "X", Name: "Tea", Price: dec("3")})
	require.NoError(t, err)
	second, err := f.productService.UpsertProduct(ctx, &UpsertProductInput{ID: "X", Name: "Green tea", Price: dec("3.5")})
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	got, err := f.productService.GetProduct(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, "Green tea", got.Name)
}

func TestListProductsUsesCatalogSnapshot(t *testing.T) {
	f := newFixture(t, burger, entity.Product{ID: "B", Name: "Beer", Price: dec("8"), Category: "Drinks"})
	ctx := context.Background()

	view, err := f.productService.ListProducts(ctx, entity.ProductFilter{}, false)
	require.NoError(t, err)
	require.Len(t, view.Value, 2)
	assert.Equal(t, "Beer", view.Value[0].Name)

	_, err = f.productService.UpsertProduct(ctx, &UpsertProductInput{ID: "C", Name: "Cake", Price: dec("6")})
	require.NoError(t, err)
	require.NoError(t, f.productService.RemoveProduct(ctx, "B"))

	view, err = f.productService.ListProducts(ctx, entity.ProductFilter{}, false)
	require.NoError(t, err)
	names := []string{}
	for _, p := range view.Value {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Burger", "Cake"}, names)

	found, err := f.productService.ListProducts(ctx, entity.ProductFilter{Search: "food"}, false)
	require.NoError(t, err)
	require.Len(t, found.Value, 1)
	assert.Equal(t, "A", found.Value[0].ID)
}

func TestRemoveProduct(t *testing.T) {
	f := newFixture(t, burger)
	ctx := context.Background()

	err := f.productService.RemoveProduct(ctx, "ghost")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = f.tableService.AddItem(ctx, 1, "A")
	require.NoError(t, err)
	require.NoError(t, f.productService.RemoveProduct(ctx, "A"))

	_, err = f.productService.GetProduct(ctx, "A")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Len(t, f.table(t, 1).Orders, 1, "open lines survive product removal")
}
