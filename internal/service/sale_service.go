package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ohana-pos/pos/internal/model"
	"github.com/ohana-pos/pos/internal/repository"
)

var (
	ErrEmptySale         = errors.New("sale has no items")
	ErrInvalidQuantity   = errors.New("quantity must be greater than 0")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type SaleService struct {
	sales    *repository.SaleRepository
	products *repository.ProductRepository
}

func NewSaleService(sales *repository.SaleRepository, products *repository.ProductRepository) *SaleService {
	return &SaleService{sales: sales, products: products}
}

// Create finalizes a sale: within one transaction it locks each product row,
// re-checks stock, decrements it, and inserts the sale with its items. Any
// line exceeding stock rejects the whole sale, so a stale client snapshot
// cannot over-sell.
func (s *SaleService) Create(ctx context.Context, sale *model.Sale) error {
	if len(sale.Items) == 0 {
		return ErrEmptySale
	}
	for _, item := range sale.Items {
		if item.Qty <= 0 {
			return ErrInvalidQuantity
		}
	}

	var total float64
	for _, item := range sale.Items {
		total += item.Price * float64(item.Qty)
	}
	sale.Total = total
	if sale.AmountReceived > 0 {
		sale.Change = sale.AmountReceived - total
	}
	sale.Folio = uuid.NewString()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}

	return s.sales.RunAtomic(ctx, func(ctx context.Context) error {
		for _, item := range sale.Items {
			_, stock, err := s.products.GetForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if stock < item.Qty {
				return ErrInsufficientStock
			}
			if err := s.products.DecrementStock(ctx, item.ProductID, item.Qty); err != nil {
				return err
			}
		}
		return s.sales.Create(ctx, sale)
	})
}

func (s *SaleService) List(ctx context.Context) ([]model.Sale, error) {
	return s.sales.List(ctx)
}

// Daily returns the sales registered since local midnight.
func (s *SaleService) Daily(ctx context.Context) ([]model.Sale, error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.sales.ListSince(ctx, midnight)
}

func (s *SaleService) TotalRevenue(ctx context.Context) (float64, error) {
	return s.sales.TotalRevenue(ctx)
}
