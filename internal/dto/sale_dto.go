package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SaleItemRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity"  validate:"required,min=1"`
}

type CreateSaleRequest struct {
	Items []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	// PaymentMethod defaults to "cash" when empty.
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,max=20"`
}

type EmailReceiptRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /sales.
type SaleFilter struct {
	StartDate string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate"   validate:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CreateSaleResponse struct {
	TransactionID string          `json:"transactionId"`
	SaleID        uint            `json:"saleId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	VATAmount     decimal.Decimal `json:"vatAmount"`
}

// SaleListRow is one row of the sales history, with the cashier name joined.
type SaleListRow struct {
	ID            uint            `json:"id"`
	TransactionID string          `json:"transaction_id"`
	CashierID     uint            `json:"cashier_id"`
	CashierName   string          `json:"cashier_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

type SaleItemDetail struct {
	ID          uint            `json:"id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Barcode     *string         `json:"barcode"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type SaleDetailResponse struct {
	SaleListRow
	Items []SaleItemDetail `json:"items"`
}
