package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=1,max=255"`
	Barcode     *string         `json:"barcode"     validate:"omitempty,min=1,max=100"`
	Price       decimal.Decimal `json:"price"       validate:"required,gt=0"`
	Stock       int             `json:"stock"       validate:"min=0"`
	Category    string          `json:"category"    validate:"max=100"`
	Description *string         `json:"description"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,min=1,max=255"`
	Barcode     *string          `json:"barcode"     validate:"omitempty,min=1,max=100"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,gt=0"`
	Stock       *int             `json:"stock"       validate:"omitempty,min=0"`
	Category    *string          `json:"category"    validate:"omitempty,max=100"`
	Description *string          `json:"description"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CreateProductResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}
