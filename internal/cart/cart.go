// Package cart implements the in-memory checkout cart: product lines with
// quantities validated against the last-known stock snapshot, a derived
// total, and change computation for the payment step.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ohana-pos/pos/internal/model"
	"github.com/ohana-pos/pos/internal/posapi"
)

var (
	ErrOutOfStock        = errors.New("out of stock")
	ErrInsufficientStock = errors.New("not enough stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInsufficientCash  = errors.New("amount received is less than the total")
)

// Line is one product awaiting checkout.
type Line struct {
	Product model.Product
	Qty     int
}

func (l Line) Subtotal() float64 {
	return l.Product.Price * float64(l.Qty)
}

// Cart holds the lines in the order products were first added. The quantity
// of a line never exceeds the stock snapshot of the product it was last
// added with; the server re-checks on checkout, since the snapshot can be
// stale.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts one unit of the product in the cart: a new line at quantity 1,
// or an increment of the existing line. The product argument carries the
// freshest stock snapshot, so the line's product is refreshed too.
func (c *Cart) Add(p model.Product) error {
	if p.Stock <= 0 {
		return fmt.Errorf("%q: %w", p.Name, ErrOutOfStock)
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == p.ID {
			if c.lines[i].Qty+1 > p.Stock {
				return fmt.Errorf("%q: %w", p.Name, ErrInsufficientStock)
			}
			c.lines[i].Product = p
			c.lines[i].Qty++
			return nil
		}
	}
	c.lines = append(c.lines, Line{Product: p, Qty: 1})
	return nil
}

// Decrease removes one unit; at quantity 1 the whole line goes away.
// Unknown ids are a no-op.
func (c *Cart) Decrease(productID int) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			if c.lines[i].Qty == 1 {
				c.Remove(productID)
			} else {
				c.lines[i].Qty--
			}
			return
		}
	}
}

// Remove drops the line unconditionally.
func (c *Cart) Remove(productID int) {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Interactive confirmation is the caller's job.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total is always derived from the lines, never stored.
func (c *Cart) Total() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Change is what the customer gets back; negative while the tendered
// amount does not cover the total.
func (c *Cart) Change(tendered float64) float64 {
	return tendered - c.Total()
}

// CanCheckout reports whether the payment step may proceed.
func (c *Cart) CanCheckout(tendered float64) bool {
	return len(c.lines) > 0 && c.Change(tendered) >= 0
}

func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Checkout submits the cart as a sale. On success the cart is cleared; on
// any failure it is left intact so the cashier can retry.
func (c *Cart) Checkout(ctx context.Context, client *posapi.Client, tendered float64) (*posapi.Sale, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if c.Change(tendered) < 0 {
		return nil, ErrInsufficientCash
	}

	req := posapi.CreateSaleRequest{
		Total:          c.Total(),
		AmountReceived: tendered,
	}
	for _, l := range c.lines {
		req.Items = append(req.Items, posapi.SaleItem{
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			Price:     l.Product.Price,
			Qty:       l.Qty,
		})
	}

	sale, err := client.CreateSale(ctx, req)
	if err != nil {
		return nil, err
	}
	c.Clear()
	return sale, nil
}

// FindByQuery resolves the scan/search box: an exact match on product code
// or name, case-insensitive.
func FindByQuery(products []model.Product, query string) (model.Product, bool) {
	q := strings.ToLower(query)
	for _, p := range products {
		if strings.ToLower(p.Code) == q || strings.ToLower(p.Name) == q {
			return p, true
		}
	}
	return model.Product{}, false
}

// Filter keeps the products whose name or code contains the query,
// case-insensitive. An empty query keeps everything.
func Filter(products []model.Product, query string) []model.Product {
	if query == "" {
		return products
	}
	q := strings.ToLower(query)
	var out []model.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Code), q) {
			out = append(out, p)
		}
	}
	return out
}

// FilterBySupplier keeps the products carrying the given supplier tag;
// an empty tag keeps everything.
func FilterBySupplier(products []model.Product, supplier string) []model.Product {
	if supplier == "" {
		return products
	}
	want := strings.ToLower(strings.TrimSpace(supplier))
	var out []model.Product
	for _, p := range products {
		if strings.ToLower(strings.TrimSpace(p.Supplier)) == want {
			out = append(out, p)
		}
	}
	return out
}
