package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ohana-pos/pos/internal/model"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateCode   = errors.New("product code already exists")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type ProductRepository struct {
	*DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.executor(ctx).Query(ctx,
		"SELECT id, name, price, stock, code, supplier FROM products ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Code, &p.Supplier); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Create(ctx context.Context, p *model.Product) error {
	err := r.executor(ctx).QueryRow(ctx,
		"INSERT INTO products (name, price, stock, code, supplier) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		p.Name, p.Price, p.Stock, p.Code, p.Supplier).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, p *model.Product) error {
	tag, err := r.executor(ctx).Exec(ctx,
		"UPDATE products SET name = $1, price = $2, stock = $3, code = $4, supplier = $5 WHERE id = $6",
		p.Name, p.Price, p.Stock, p.Code, p.Supplier, p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// Delete removes a product. Deleting an id that does not exist is not an
// error so that repeated deletes stay idempotent.
func (r *ProductRepository) Delete(ctx context.Context, id int) error {
	_, err := r.executor(ctx).Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.executor(ctx).QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// GetForUpdate locks the product row and returns its price and stock.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id int) (float64, int, error) {
	var price float64
	var stock int
	err := r.executor(ctx).QueryRow(ctx,
		"SELECT price, stock FROM products WHERE id = $1 FOR UPDATE", id).Scan(&price, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrProductNotFound
		}
		return 0, 0, fmt.Errorf("failed to get product: %w", err)
	}
	return price, stock, nil
}

// DecrementStock subtracts qty from the product's stock.
func (r *ProductRepository) DecrementStock(ctx context.Context, id, qty int) error {
	_, err := r.executor(ctx).Exec(ctx,
		"UPDATE products SET stock = stock - $1 WHERE id = $2", qty, id)
	if err != nil {
		return fmt.Errorf("failed to update product stock: %w", err)
	}
	return nil
}
