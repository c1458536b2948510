package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type Product struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Code     string  `json:"code"`
	Supplier string  `json:"supplier"`
}

type SaleItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

type Sale struct {
	ID             int        `json:"id"`
	Folio          string     `json:"folio"`
	Items          []SaleItem `json:"items"`
	Total          float64    `json:"total"`
	AmountReceived float64    `json:"amountReceived"`
	Change         float64    `json:"change"`
	CreatedAt      time.Time  `json:"date"`
}

type DebtorItem struct {
	Product string  `json:"product"`
	Price   float64 `json:"price"`
	Qty     int     `json:"qty"`
}

// DebtorItems normalizes the two shapes the items field arrives in:
// a structured JSON array, or that same array serialized into a string.
// Internal code only ever sees the structured form.
type DebtorItems []DebtorItem

func (d *DebtorItems) UnmarshalJSON(data []byte) error {
	var items []DebtorItem
	if err := json.Unmarshal(data, &items); err == nil {
		*d = items
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("debtor items: expected array or string: %w", err)
	}
	if raw == "" {
		*d = nil
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fmt.Errorf("debtor items: invalid encoded list: %w", err)
	}
	*d = items
	return nil
}

// Total is the sum of price*qty across all lines.
func (d DebtorItems) Total() float64 {
	var total float64
	for _, item := range d {
		total += item.Price * float64(item.Qty)
	}
	return total
}

type Debtor struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Phone       string      `json:"phone"`
	Description string      `json:"description"`
	Items       DebtorItems `json:"items"`
	Total       float64     `json:"total"`
	Paid        bool        `json:"paid"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Suppliers is the closed vocabulary of vendor tags a product may carry.
var Suppliers = []string{
	"Cocacola", "Bimbo", "Barcel", "Gamesa", "Marinela", "Ricolino", "MYMS",
	"Pepsi", "Peñafiel", "Boing", "Cerveza", "Jabones", "Papel", "Costeña",
	"Herdez", "Dulces", "Maruchan", "Nestle Productos", "Nestle Helados",
	"Articulo de limpieza", "Sopas", "Cigarros",
}

func ValidSupplier(tag string) bool {
	for _, s := range Suppliers {
		if s == tag {
			return true
		}
	}
	return false
}
