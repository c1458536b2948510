package posapi

import (
	"fmt"
	"net/http"
	"time"
)

// SaleItem is one line of a registered sale as the API returns it.
type SaleItem struct {
	ProductID int     `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

// Sale is a sale record as returned by the API. Backends have shipped the
// timestamp under several different keys over time, so all known variants
// are decoded and When picks the best one.
type Sale struct {
	ID             int        `json:"id"`
	Folio          string     `json:"folio"`
	Items          []SaleItem `json:"items"`
	Total          float64    `json:"total"`
	AmountReceived float64    `json:"amountReceived"`
	Change         float64    `json:"change"`
	ClientName     string     `json:"clientName"`

	Date           string `json:"date"`
	CreatedAt      string `json:"createdAt"`
	CreatedAtSnake string `json:"created_at"`
	Timestamp      string `json:"timestamp"`
	Fecha          string `json:"fecha"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// When resolves the sale's timestamp: the first non-empty field wins, in
// the order date, createdAt, created_at, timestamp, fecha. If that value
// does not parse, the sale counts as undated — later candidates are not
// consulted, matching how the field fallback has always behaved.
func (s *Sale) When() (time.Time, bool) {
	var raw string
	for _, candidate := range []string{s.Date, s.CreatedAt, s.CreatedAtSnake, s.Timestamp, s.Fecha} {
		if candidate != "" {
			raw = candidate
			break
		}
	}
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreateSaleRequest is the checkout payload.
type CreateSaleRequest struct {
	Items          []SaleItem `json:"items"`
	Total          float64    `json:"total"`
	AmountReceived float64    `json:"amountReceived,omitempty"`
}

type countResponse struct {
	Count int `json:"count"`
}

type totalResponse struct {
	Total float64 `json:"total"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// APIError is a rejected request. Callers can branch on the cause while
// still presenting a single flat message to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// IsAuth reports whether the request failed because the session is missing,
// expired, or not allowed.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsValidation reports whether the server rejected the request's content.
func (e *APIError) IsValidation() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500 && !e.IsAuth()
}
