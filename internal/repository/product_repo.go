package repository

import (
	"context"
	"errors"

	"saripos/internal/apierror"
	"saripos/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint) error

	// Used inside the sale transaction — callers must pass the tx instance.
	// FindByIDForUpdate takes a FOR UPDATE row lock so that the stock check
	// and decrement for a product are serialized across concurrent sales.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.Product, error)
	// DecrementStock is guarded with stock >= quantity; zero rows affected
	// means a concurrent sale drained the stock after our check.
	DecrementStock(ctx context.Context, tx *gorm.DB, id uint, quantity int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apierror.ConflictError{Field: "Barcode"}
	}
	return err
}

func (r *productRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apierror.NotFoundError{Resource: "Product", ID: id}
	}
	return &p, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apierror.NotFoundError{Resource: "Product"}
	}
	return &p, err
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	err := r.db.WithContext(ctx).Save(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &apierror.ConflictError{Field: "Barcode"}
	}
	return err
}

func (r *productRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &apierror.NotFoundError{Resource: "Product", ID: id}
	}
	return nil
}

func (r *productRepo) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*model.Product, error) {
	var p model.Product
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apierror.NotFoundError{Resource: "Product", ID: id}
	}
	return &p, err
}

func (r *productRepo) DecrementStock(ctx context.Context, tx *gorm.DB, id uint, quantity int) error {
	res := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Re-read for an accurate shortfall message; the row lock normally
		// prevents this path, the guard is the compare-and-set backstop.
		var p model.Product
		if err := tx.WithContext(ctx).First(&p, id).Error; err != nil {
			return &apierror.NotFoundError{Resource: "Product", ID: id}
		}
		return &apierror.InsufficientStockError{
			Product:   p.Name,
			Available: p.Stock,
			Required:  quantity,
		}
	}
	return nil
}
