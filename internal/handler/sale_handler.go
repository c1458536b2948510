package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ohana-pos/pos/internal/model"
)

type CreateSaleRequest struct {
	Items          []model.SaleItem `json:"items"`
	Total          float64          `json:"total"`
	AmountReceived float64          `json:"amountReceived"`
}

func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sale := &model.Sale{
		Items:          req.Items,
		Total:          req.Total,
		AmountReceived: req.AmountReceived,
	}
	if err := h.sales.Create(r.Context(), sale); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h *Handler) DailySales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.Daily(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if sales == nil {
		sales = []model.Sale{}
	}
	writeJSON(w, http.StatusOK, sales)
}

func (h *Handler) SalesTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.sales.TotalRevenue(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"total": total})
}

// PendingSales reports the dashboard's pending counter: debtors that have
// not settled yet.
func (h *Handler) PendingSales(w http.ResponseWriter, r *http.Request) {
	count, err := h.debtors.PendingCount(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
