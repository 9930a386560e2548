// cmd/seed/main.go — migrates the schema and loads the demo admin user plus
// a starter catalog. Safe to re-run: existing rows are left alone.
// Usage: go run ./cmd/seed
package main

import (
	"context"

	"saripos/internal/config"
	"saripos/internal/infra"
	"saripos/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer infra.CloseDatabase(db)

	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}
	admin := model.User{Username: "admin", PasswordHash: string(hash), Role: model.RoleAdmin}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(&admin).Error; err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin user")
	}
	log.Info().Msg("admin user ready (username: admin, password: admin123)")

	type seedProduct struct {
		name     string
		barcode  string
		price    string
		stock    int
		category string
	}
	products := []seedProduct{
		{"Rice (1kg)", "7901234567890", "55.00", 50, "Staples"},
		{"Instant Noodles", "7901234567891", "12.00", 100, "Food"},
		{"Coca Cola 350ml", "7901234567892", "25.00", 30, "Beverages"},
		{"Shampoo Sachet", "7901234567893", "8.50", 200, "Personal Care"},
		{"Bread Loaf", "7901234567894", "45.00", 15, "Food"},
		{"Cooking Oil 1L", "7901234567895", "85.00", 25, "Cooking"},
		{"Sugar 1kg", "7901234567896", "60.00", 30, "Staples"},
		{"Coffee 3-in-1", "7901234567897", "7.00", 150, "Beverages"},
	}

	for _, sp := range products {
		barcode := sp.barcode
		p := model.Product{
			Name:     sp.name,
			Barcode:  &barcode,
			Price:    decimal.RequireFromString(sp.price),
			Stock:    sp.stock,
			Category: sp.category,
		}
		err := db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "barcode"}}, DoNothing: true}).
			Create(&p).Error
		if err != nil && err != gorm.ErrDuplicatedKey {
			log.Fatal().Err(err).Str("product", sp.name).Msg("failed to seed product")
		}
	}
	log.Info().Int("count", len(products)).Msg("starter catalog seeded")
}
