package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ohana-pos/pos/internal/repository"
	"github.com/ohana-pos/pos/internal/service"
)

type Handler struct {
	router *chi.Mux

	auth     *service.AuthService
	products *service.ProductService
	sales    *service.SaleService
	debtors  *service.DebtorService
}

func NewHandler(auth *service.AuthService, products *service.ProductService, sales *service.SaleService, debtors *service.DebtorService) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	h := &Handler{
		router:   router,
		auth:     auth,
		products: products,
		sales:    sales,
		debtors:  debtors,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Post("/", h.CreateProduct)
				r.Get("/count", h.CountProducts)
				r.Put("/{id}", h.UpdateProduct)
				r.Delete("/{id}", h.DeleteProduct)
			})

			r.Route("/sales", func(r chi.Router) {
				r.Get("/", h.ListSales)
				r.Post("/", h.CreateSale)
				r.Get("/daily", h.DailySales)
				r.Get("/total", h.SalesTotal)
				r.Get("/pending", h.PendingSales)
			})

			r.Route("/debtors", func(r chi.Router) {
				r.Get("/", h.ListDebtors)
				r.Post("/", h.CreateDebtor)
				r.Put("/{id}", h.UpdateDebtor)
				r.Delete("/{id}", h.DeleteDebtor)
			})

			r.Get("/clients/count", h.ClientsCount)
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// requireAuth gates every route behind a valid bearer token.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := h.auth.Verify(token); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps known business errors to 4xx responses and hides
// everything else behind a generic 500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidSupplier),
		errors.Is(err, service.ErrNegativeValues),
		errors.Is(err, service.ErrEmptySale),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrMissingName),
		errors.Is(err, repository.ErrDuplicateCode):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProductNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrBadCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
