package repository

import (
	"context"
	"errors"

	"saripos/internal/apierror"
	"saripos/internal/dto"
	"saripos/internal/model"

	"gorm.io/gorm"
)

type SaleRepository interface {
	// Create persists the sale header and its items inside the given tx.
	Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uint) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleListRow, error)
	// DB exposes the DB for transaction creation in the service layer.
	DB() *gorm.DB
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) DB() *gorm.DB { return r.db }

func (r *saleRepo) Create(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uint) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		Preload("Cashier").
		First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apierror.NotFoundError{Resource: "Sale", ID: id}
	}
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleListRow, error) {
	rows := make([]dto.SaleListRow, 0, filter.Limit)
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("sales.id, sales.transaction_id, sales.cashier_id, users.username AS cashier_name, " +
			"sales.total_amount, sales.payment_method, sales.created_at").
		Joins("LEFT JOIN users ON users.id = sales.cashier_id")

	if filter.StartDate != "" && filter.EndDate != "" {
		q = q.Where("DATE(sales.created_at) BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	}

	err := q.Order("sales.created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Scan(&rows).Error
	return rows, err
}
