package service_test

import (
	"context"
	"testing"

	"saripos/internal/apierror"
	"saripos/internal/dto"
	"saripos/internal/model"
	"saripos/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func decimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

func TestProductCreate(t *testing.T) {
	repo := newStubProductRepo()
	svc := service.NewProductService(repo, nil)

	p, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:     "Rice (1kg)",
		Barcode:  strPtr("7901234567890"),
		Price:    price("55.00"),
		Stock:    50,
		Category: "Staples",
	})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)
	assert.Equal(t, "Rice (1kg)", repo.products[p.ID].Name)
}

func TestProductCreate_DuplicateBarcode(t *testing.T) {
	repo := newStubProductRepo(&model.Product{
		ID:      1,
		Name:    "Cooking Oil 1L",
		Barcode: strPtr("7901234567895"),
		Price:   price("85.00"),
		Stock:   25,
	})
	svc := service.NewProductService(repo, nil)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Name:    "Cooking Oil 1L (restock)",
		Barcode: strPtr("7901234567895"),
		Price:   price("85.00"),
		Stock:   10,
	})
	var conflict *apierror.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Barcode already exists", err.Error())
	// No second row for the same barcode.
	assert.Len(t, repo.products, 1)
}

func TestProductUpdate_DuplicateBarcode(t *testing.T) {
	repo := newStubProductRepo(
		&model.Product{ID: 1, Name: "Sugar 1kg", Barcode: strPtr("7901234567896"), Price: price("60.00")},
		&model.Product{ID: 2, Name: "Rice (1kg)", Barcode: strPtr("7901234567890"), Price: price("55.00")},
	)
	svc := service.NewProductService(repo, nil)

	_, err := svc.Update(context.Background(), 2, dto.UpdateProductRequest{
		Barcode: strPtr("7901234567896"),
	})
	var conflict *apierror.ConflictError
	require.ErrorAs(t, err, &conflict)
	// The stored row keeps its original barcode.
	assert.Equal(t, "7901234567890", *repo.products[2].Barcode)
}

func TestProductUpdate_PartialFields(t *testing.T) {
	repo := newStubProductRepo(&model.Product{
		ID:       1,
		Name:     "Coffee 3-in-1",
		Barcode:  strPtr("7901234567897"),
		Price:    price("7.00"),
		Stock:    150,
		Category: "Beverages",
	})
	svc := service.NewProductService(repo, nil)

	updated, err := svc.Update(context.Background(), 1, dto.UpdateProductRequest{
		Price: decimalPtr(price("7.50")),
		Stock: intPtr(120),
	})
	require.NoError(t, err)

	// Changed fields
	assert.True(t, updated.Price.Equal(price("7.50")))
	assert.Equal(t, 120, updated.Stock)
	// Untouched fields survive
	assert.Equal(t, "Coffee 3-in-1", updated.Name)
	assert.Equal(t, "Beverages", updated.Category)
	require.NotNil(t, updated.Barcode)
	assert.Equal(t, "7901234567897", *updated.Barcode)
}

func TestProductUpdate_NotFound(t *testing.T) {
	svc := service.NewProductService(newStubProductRepo(), nil)

	_, err := svc.Update(context.Background(), 42, dto.UpdateProductRequest{Stock: intPtr(1)})
	var notFound *apierror.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, uint(42), notFound.ID)
}

func TestProductGetByBarcode_NoCache(t *testing.T) {
	repo := newStubProductRepo(&model.Product{
		ID:      1,
		Name:    "Coca Cola 350ml",
		Barcode: strPtr("7901234567892"),
		Price:   price("25.00"),
		Stock:   30,
	})
	svc := service.NewProductService(repo, nil)

	p, err := svc.GetByBarcode(context.Background(), "7901234567892")
	require.NoError(t, err)
	assert.Equal(t, uint(1), p.ID)

	_, err = svc.GetByBarcode(context.Background(), "0000000000000")
	var notFound *apierror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestProductDelete(t *testing.T) {
	repo := newStubProductRepo(&model.Product{ID: 1, Name: "Bread Loaf", Price: price("45.00")})
	svc := service.NewProductService(repo, nil)

	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.Empty(t, repo.products)

	err := svc.Delete(context.Background(), 1)
	var notFound *apierror.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
