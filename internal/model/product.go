package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry. Stock must never go below zero after a
// committed sale; the repository enforces this with a row lock plus a guarded
// decrement, and the check constraint is the last line of defense.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"index;size:255;not null" json:"name"`
	Barcode     *string         `gorm:"uniqueIndex;size:100" json:"barcode"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	Category    string          `gorm:"size:100" json:"category"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
