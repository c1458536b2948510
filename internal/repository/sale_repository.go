package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ohana-pos/pos/internal/model"
)

type SaleRepository struct {
	*DB
}

func NewSaleRepository(db *DB) *SaleRepository {
	return &SaleRepository{DB: db}
}

// Create inserts the sale and its line items. Meant to run inside
// RunAtomic together with the stock decrement.
func (r *SaleRepository) Create(ctx context.Context, s *model.Sale) error {
	err := r.executor(ctx).QueryRow(ctx,
		"INSERT INTO sales (folio, total, amount_received, change, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		s.Folio, s.Total, s.AmountReceived, s.Change, s.CreatedAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	for _, item := range s.Items {
		_, err := r.executor(ctx).Exec(ctx,
			"INSERT INTO sale_items (sale_id, product_id, name, price, qty) VALUES ($1, $2, $3, $4, $5)",
			s.ID, item.ProductID, item.Name, item.Price, item.Qty)
		if err != nil {
			return fmt.Errorf("failed to create sale item: %w", err)
		}
	}
	return nil
}

func (r *SaleRepository) List(ctx context.Context) ([]model.Sale, error) {
	return r.list(ctx,
		"SELECT id, folio, total, amount_received, change, created_at FROM sales ORDER BY created_at DESC")
}

// ListSince returns sales created at or after the given instant, used for
// the daily cut (since local midnight).
func (r *SaleRepository) ListSince(ctx context.Context, since time.Time) ([]model.Sale, error) {
	return r.list(ctx,
		"SELECT id, folio, total, amount_received, change, created_at FROM sales WHERE created_at >= $1 ORDER BY created_at DESC",
		since)
}

func (r *SaleRepository) list(ctx context.Context, query string, args ...any) ([]model.Sale, error) {
	rows, err := r.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		var s model.Sale
		if err := rows.Scan(&s.ID, &s.Folio, &s.Total, &s.AmountReceived, &s.Change, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range sales {
		items, err := r.items(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Items = items
	}
	return sales, nil
}

func (r *SaleRepository) items(ctx context.Context, saleID int) ([]model.SaleItem, error) {
	rows, err := r.executor(ctx).Query(ctx,
		"SELECT product_id, name, price, qty FROM sale_items WHERE sale_id = $1 ORDER BY id", saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale items: %w", err)
	}
	defer rows.Close()

	var items []model.SaleItem
	for rows.Next() {
		var it model.SaleItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price, &it.Qty); err != nil {
			return nil, fmt.Errorf("failed to scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SaleRepository) TotalRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.executor(ctx).QueryRow(ctx,
		"SELECT COALESCE(SUM(total), 0) FROM sales").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum sales: %w", err)
	}
	return total, nil
}
