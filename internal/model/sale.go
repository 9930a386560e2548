package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one committed transaction. Immutable after commit: a row existing
// means every write of the sale landed, since the processor commits the header,
// its items, and the stock decrements as a single unit.
//
// TransactionID is the externally visible identifier printed on receipts,
// distinct from the numeric row id.
type Sale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID string          `gorm:"uniqueIndex;size:50;not null" json:"transaction_id"`
	CashierID     uint            `gorm:"index;not null" json:"cashier_id"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	PaymentMethod string          `gorm:"size:20;not null;default:'cash'" json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`

	Cashier *User      `gorm:"foreignKey:CashierID" json:"-"`
	Items   []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// SaleItem is one line within a Sale. UnitPrice is a snapshot taken at sale
// time — later catalog price changes must not alter historical totals.
type SaleItem struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	SaleID     uint            `gorm:"index;not null" json:"sale_id"`
	ProductID  uint            `gorm:"index;not null" json:"product_id"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}
