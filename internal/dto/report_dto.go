package dto

import (
	"github.com/shopspring/decimal"

	"saripos/internal/model"
)

// ─── Filters ─────────────────────────────────────────────────────────────────

type SalesReportFilter struct {
	StartDate string `form:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `form:"endDate"   validate:"required,datetime=2006-01-02"`
	GroupBy   string `form:"groupBy,default=day" validate:"omitempty,oneof=day week month"`
}

type TopProductsFilter struct {
	StartDate string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate"   validate:"omitempty,datetime=2006-01-02"`
	Limit     int    `form:"limit,default=10" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// PeriodStats aggregates sale count and revenue for one time window.
type PeriodStats struct {
	Transactions int64           `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type DashboardStatsResponse struct {
	TodaySales       PeriodStats     `json:"todaySales"`
	MonthSales       PeriodStats     `json:"monthSales"`
	TotalProducts    int64           `json:"totalProducts"`
	LowStockProducts []model.Product `json:"lowStockProducts"`
	RecentSales      []SaleListRow   `json:"recentSales"`
}

type SalesReportRow struct {
	Period       string          `json:"period"`
	Transactions int64           `json:"transactions"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type TopProductRow struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	TotalSold    int64           `json:"total_sold"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}
