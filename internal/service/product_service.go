package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"saripos/internal/dto"
	"saripos/internal/model"
	"saripos/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// productCacheTTL bounds how stale a cached barcode lookup can get. Stock
// moves on every sale, so the window is kept short.
const productCacheTTL = 60 * time.Second

func productCacheKey(barcode string) string {
	return fmt.Sprintf("product:barcode:%s", barcode)
}

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id uint) (*model.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id uint) error
}

type productService struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*model.Product, error) {
	p := &model.Product{
		Name:        req.Name,
		Barcode:     req.Barcode,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByBarcode serves the scanner hot path. Lookups are cached in Redis for a
// short TTL; misses and cache errors fall through to the database.
func (s *productService) GetByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, productCacheKey(barcode)).Bytes()
		if err == nil {
			var p model.Product
			if json.Unmarshal(raw, &p) == nil {
				return &p, nil
			}
		} else if err != redis.Nil {
			log.Debug().Err(err).Str("barcode", barcode).Msg("product cache read failed")
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(p); err == nil {
			if err := s.rdb.Set(ctx, productCacheKey(barcode), raw, productCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("barcode", barcode).Msg("product cache write failed")
			}
		}
	}
	return p, nil
}

// Update applies a partial update: only the fields present in the request
// change, the rest keep their stored values.
func (s *productService) Update(ctx context.Context, id uint, req dto.UpdateProductRequest) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	staleBarcode := p.Barcode

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Description != nil {
		p.Description = req.Description
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.dropCached(ctx, staleBarcode, p.Barcode)
	return p, nil
}

func (s *productService) Delete(ctx context.Context, id uint) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.dropCached(ctx, p.Barcode)
	return nil
}

func (s *productService) dropCached(ctx context.Context, barcodes ...*string) {
	if s.rdb == nil {
		return
	}
	var keys []string
	for _, code := range barcodes {
		if code != nil {
			keys = append(keys, productCacheKey(*code))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Debug().Err(err).Msg("product cache invalidation failed")
	}
}
