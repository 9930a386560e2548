package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"saripos/internal/apierror"
	"saripos/internal/config"
	"saripos/internal/dto"
	"saripos/internal/infra"
	"saripos/internal/model"
	"saripos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	Create(ctx context.Context, cashierID uint, req dto.CreateSaleRequest) (*dto.CreateSaleResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleListRow, error)
	Get(ctx context.Context, id uint) (*dto.SaleDetailResponse, error)
	Receipt(ctx context.Context, id uint) ([]byte, string, error)
	EmailReceipt(ctx context.Context, id uint, to string) error
	// VATPortion returns the VAT share included in a gross amount.
	VATPortion(total decimal.Decimal) decimal.Decimal
}

type saleService struct {
	repo        repository.SaleRepository
	productRepo repository.ProductRepository
	rdb         *redis.Client
	mailer      *infra.Mailer
	cfg         *config.Config
}

func NewSaleService(
	repo repository.SaleRepository,
	productRepo repository.ProductRepository,
	rdb *redis.Client,
	mailer *infra.Mailer,
	cfg *config.Config,
) SaleService {
	return &saleService{repo: repo, productRepo: productRepo, rdb: rdb, mailer: mailer, cfg: cfg}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with stub repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// newTransactionID builds the receipt-visible sale identifier. The millisecond
// timestamp alone collides under concurrent requests, so a random uuid
// fragment disambiguates; the column's unique index is the backstop.
func newTransactionID() string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("TXN%d-%s", time.Now().UnixMilli(), suffix)
}

// Create is the sale transaction processor. All writes — sale header, line
// items, stock decrements — commit as one unit or not at all:
//
//  1. Pass 1, in cart order: lock each product row (FOR UPDATE), verify
//     stock covers the requested quantity, snapshot the unit price, and
//     accumulate line totals.
//  2. Pass 2: decrement stock with a stock >= quantity guard.
//  3. Persist the sale with its items and the accumulated total.
//
// Any failure rolls back every prior write; no partial state is ever
// observable by other requests. Re-submitting the same cart after a failure
// creates a new, independent sale.
func (s *saleService) Create(ctx context.Context, cashierID uint, req dto.CreateSaleRequest) (*dto.CreateSaleResponse, error) {
	if len(req.Items) == 0 {
		return nil, &apierror.ValidationError{Msg: "Items are required"}
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	type resolvedLine struct {
		productID uint
		quantity  int
		unitPrice decimal.Decimal
		lineTotal decimal.Decimal
	}

	sale := model.Sale{
		TransactionID: newTransactionID(),
		CashierID:     cashierID,
		PaymentMethod: paymentMethod,
	}
	var soldBarcodes []string

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		resolved := make([]resolvedLine, 0, len(req.Items))
		total := decimal.Zero

		for _, line := range req.Items {
			p, err := s.productRepo.FindByIDForUpdate(ctx, tx, line.ProductID)
			if err != nil {
				return err
			}
			if p.Stock < line.Quantity {
				return &apierror.InsufficientStockError{
					Product:   p.Name,
					Available: p.Stock,
					Required:  line.Quantity,
				}
			}
			lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
			total = total.Add(lineTotal)
			if p.Barcode != nil {
				soldBarcodes = append(soldBarcodes, *p.Barcode)
			}
			resolved = append(resolved, resolvedLine{
				productID: p.ID,
				quantity:  line.Quantity,
				unitPrice: p.Price,
				lineTotal: lineTotal,
			})
		}

		for _, r := range resolved {
			if err := s.productRepo.DecrementStock(ctx, tx, r.productID, r.quantity); err != nil {
				return err
			}
		}

		for _, r := range resolved {
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:  r.productID,
				Quantity:   r.quantity,
				UnitPrice:  r.unitPrice,
				TotalPrice: r.lineTotal,
			})
		}
		sale.TotalAmount = total

		return s.repo.Create(ctx, tx, &sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Stock changed — drop cached barcode lookups for the sold products.
	// Best effort: a stale cache entry only misreports stock, never price
	// history, and expires on its own.
	s.invalidateProductCache(ctx, soldBarcodes)

	log.Info().
		Str("transaction_id", sale.TransactionID).
		Uint("sale_id", sale.ID).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Int("items", len(sale.Items)).
		Msg("sale committed")

	return &dto.CreateSaleResponse{
		TransactionID: sale.TransactionID,
		SaleID:        sale.ID,
		TotalAmount:   sale.TotalAmount,
		VATAmount:     s.VATPortion(sale.TotalAmount),
	}, nil
}

func (s *saleService) invalidateProductCache(ctx context.Context, barcodes []string) {
	if s.rdb == nil || len(barcodes) == 0 {
		return
	}
	keys := make([]string, 0, len(barcodes))
	for _, code := range barcodes {
		keys = append(keys, productCacheKey(code))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Debug().Err(err).Msg("product cache invalidation failed")
	}
}

// VATPortion extracts the VAT share from a VAT-inclusive amount:
// total * rate / (100 + rate), rounded to centavos.
func (s *saleService) VATPortion(total decimal.Decimal) decimal.Decimal {
	rate := decimal.NewFromInt(int64(s.cfg.VATRatePct))
	return total.Mul(rate).Div(rate.Add(decimal.NewFromInt(100))).Round(2)
}

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) ([]dto.SaleListRow, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

func (s *saleService) Get(ctx context.Context, id uint) (*dto.SaleDetailResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return saleToDetail(sale), nil
}

// Receipt renders the PDF receipt for a committed sale and returns the bytes
// with a suggested filename.
func (s *saleService) Receipt(ctx context.Context, id uint) ([]byte, string, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := infra.GenerateReceiptPDF(sale, s.cfg.StoreName, s.VATPortion(sale.TotalAmount))
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("receipt-%s.pdf", sale.TransactionID), nil
}

func (s *saleService) EmailReceipt(ctx context.Context, id uint, to string) error {
	if s.mailer == nil {
		return &apierror.ValidationError{Msg: "Email is not configured"}
	}
	pdf, filename, err := s.Receipt(ctx, id)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Your receipt from %s", s.cfg.StoreName)
	body := fmt.Sprintf("Thank you for shopping at %s! Your receipt is attached.", s.cfg.StoreName)
	return s.mailer.SendReceipt(to, subject, body, pdf, filename)
}

func saleToDetail(sale *model.Sale) *dto.SaleDetailResponse {
	cashierName := ""
	if sale.Cashier != nil {
		cashierName = sale.Cashier.Username
	}
	items := make([]dto.SaleItemDetail, 0, len(sale.Items))
	for _, item := range sale.Items {
		detail := dto.SaleItemDetail{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if item.Product != nil {
			detail.ProductName = item.Product.Name
			detail.Barcode = item.Product.Barcode
		}
		items = append(items, detail)
	}
	return &dto.SaleDetailResponse{
		SaleListRow: dto.SaleListRow{
			ID:            sale.ID,
			TransactionID: sale.TransactionID,
			CashierID:     sale.CashierID,
			CashierName:   cashierName,
			TotalAmount:   sale.TotalAmount,
			PaymentMethod: sale.PaymentMethod,
			CreatedAt:     sale.CreatedAt,
		},
		Items: items,
	}
}
