package service

import (
	"context"
	"errors"

	"github.com/ohana-pos/pos/internal/model"
	"github.com/ohana-pos/pos/internal/repository"
)

var (
	ErrMissingFields   = errors.New("all product fields are required")
	ErrInvalidSupplier = errors.New("unknown supplier")
	ErrNegativeValues  = errors.New("price and stock must not be negative")
)

type ProductService struct {
	repo *repository.ProductRepository
}

func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.repo.List(ctx)
}

func (s *ProductService) Create(ctx context.Context, p *model.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, p *model.Product) error {
	if err := validateProduct(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func validateProduct(p *model.Product) error {
	if p.Name == "" || p.Code == "" || p.Supplier == "" {
		return ErrMissingFields
	}
	if p.Price < 0 || p.Stock < 0 {
		return ErrNegativeValues
	}
	if !model.ValidSupplier(p.Supplier) {
		return ErrInvalidSupplier
	}
	return nil
}
