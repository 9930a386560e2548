package service

import (
	"context"
	"encoding/json"
	"time"

	"saripos/internal/config"
	"saripos/internal/dto"
	"saripos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	dashboardCacheKey = "dashboard:stats"
	// dashboardCacheTTL keeps the dashboard snappy under polling without
	// showing figures more than a few seconds old.
	dashboardCacheTTL = 15 * time.Second
)

type ReportService interface {
	DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
	SalesReport(ctx context.Context, filter dto.SalesReportFilter) ([]dto.SalesReportRow, error)
	TopProducts(ctx context.Context, filter dto.TopProductsFilter) ([]dto.TopProductRow, error)
}

type reportService struct {
	repo repository.ReportRepository
	rdb  *redis.Client
	cfg  *config.Config
}

func NewReportService(repo repository.ReportRepository, rdb *redis.Client, cfg *config.Config) ReportService {
	return &reportService{repo: repo, rdb: rdb, cfg: cfg}
}

func (s *reportService) DashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes()
		if err == nil {
			var cached dto.DashboardStatsResponse
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		} else if err != redis.Nil {
			log.Debug().Err(err).Msg("dashboard cache read failed")
		}
	}

	today, err := s.repo.TodayStats(ctx)
	if err != nil {
		return nil, err
	}
	month, err := s.repo.MonthStats(ctx)
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.LowStock(ctx, s.cfg.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentSales(ctx, 10)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStatsResponse{
		TodaySales:       *today,
		MonthSales:       *month,
		TotalProducts:    totalProducts,
		LowStockProducts: lowStock,
		RecentSales:      recent,
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("dashboard cache write failed")
			}
		}
	}
	return stats, nil
}

// SalesReport aggregates revenue grouped into calendar buckets. Grouping by
// week uses ISO week numbering.
func (s *reportService) SalesReport(ctx context.Context, filter dto.SalesReportFilter) ([]dto.SalesReportRow, error) {
	return s.repo.SalesByPeriod(ctx, filter.StartDate, filter.EndDate, periodFormat(filter.GroupBy))
}

func (s *reportService) TopProducts(ctx context.Context, filter dto.TopProductsFilter) ([]dto.TopProductRow, error) {
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	return s.repo.TopProducts(ctx, filter)
}

// periodFormat maps a grouping keyword to the Postgres to_char format that
// buckets timestamps into that period.
func periodFormat(groupBy string) string {
	switch groupBy {
	case "week":
		return "IYYY-IW"
	case "month":
		return "YYYY-MM"
	default:
		return "YYYY-MM-DD"
	}
}
