package repository

import (
	"context"

	"saripos/internal/dto"
	"saripos/internal/model"

	"gorm.io/gorm"
)

// ReportRepository is the read side: aggregate queries over sales and
// products for dashboards. No mutation.
type ReportRepository interface {
	TodayStats(ctx context.Context) (*dto.PeriodStats, error)
	MonthStats(ctx context.Context) (*dto.PeriodStats, error)
	CountProducts(ctx context.Context) (int64, error)
	LowStock(ctx context.Context, threshold int) ([]model.Product, error)
	RecentSales(ctx context.Context, limit int) ([]dto.SaleListRow, error)
	// SalesByPeriod groups committed sales by a to_char date format.
	SalesByPeriod(ctx context.Context, startDate, endDate, format string) ([]dto.SalesReportRow, error)
	TopProducts(ctx context.Context, filter dto.TopProductsFilter) ([]dto.TopProductRow, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) TodayStats(ctx context.Context) (*dto.PeriodStats, error) {
	var stats dto.PeriodStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS transactions, COALESCE(SUM(total_amount), 0) AS revenue
		FROM sales
		WHERE DATE(created_at) = CURRENT_DATE`).Scan(&stats).Error
	return &stats, err
}

func (r *reportRepo) MonthStats(ctx context.Context) (*dto.PeriodStats, error) {
	var stats dto.PeriodStats
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) AS transactions, COALESCE(SUM(total_amount), 0) AS revenue
		FROM sales
		WHERE date_trunc('month', created_at) = date_trunc('month', CURRENT_DATE)`).Scan(&stats).Error
	return &stats, err
}

func (r *reportRepo) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error
	return count, err
}

func (r *reportRepo) LowStock(ctx context.Context, threshold int) ([]model.Product, error) {
	products := make([]model.Product, 0)
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Find(&products).Error
	return products, err
}

func (r *reportRepo) RecentSales(ctx context.Context, limit int) ([]dto.SaleListRow, error) {
	rows := make([]dto.SaleListRow, 0, limit)
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("sales.id, sales.transaction_id, sales.cashier_id, users.username AS cashier_name, "+
			"sales.total_amount, sales.payment_method, sales.created_at").
		Joins("LEFT JOIN users ON users.id = sales.cashier_id").
		Order("sales.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) SalesByPeriod(ctx context.Context, startDate, endDate, format string) ([]dto.SalesReportRow, error) {
	rows := make([]dto.SalesReportRow, 0)
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(created_at, ?) AS period,
		       COUNT(*)               AS transactions,
		       SUM(total_amount)      AS revenue
		FROM sales
		WHERE DATE(created_at) BETWEEN ? AND ?
		GROUP BY 1
		ORDER BY 1 ASC`, format, startDate, endDate).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) TopProducts(ctx context.Context, filter dto.TopProductsFilter) ([]dto.TopProductRow, error) {
	rows := make([]dto.TopProductRow, 0, filter.Limit)

	q := r.db.WithContext(ctx).Table("sale_items si").
		Select("p.id, p.name, p.price, SUM(si.quantity) AS total_sold, SUM(si.total_price) AS total_revenue").
		Joins("JOIN products p ON p.id = si.product_id").
		Joins("JOIN sales s ON s.id = si.sale_id")

	if filter.StartDate != "" && filter.EndDate != "" {
		q = q.Where("DATE(s.created_at) BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	}

	err := q.Group("p.id, p.name, p.price").
		Order("total_sold DESC").
		Limit(filter.Limit).
		Scan(&rows).Error
	return rows, err
}
