package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/ohana-pos/pos/internal/handler"
	"github.com/ohana-pos/pos/internal/model"
	"github.com/ohana-pos/pos/internal/repository"
	"github.com/ohana-pos/pos/internal/service"
)

const testSecret = "handler-test-secret"

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatalf("Unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		t.Fatalf("Unable to ping database: %v", err)
	}

	// Truncate tables to ensure clean state
	tables := []string{"sale_items", "sales", "debtors", "products", "users"} // Order matters due to FK
	for _, table := range tables {
		_, err := pool.Exec(context.Background(), fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table))
		if err != nil {
			t.Fatalf("Failed to truncate table %s: %v", table, err)
		}
	}

	return pool
}

func setupHandler(t *testing.T, pool *pgxpool.Pool) *handler.Handler {
	db := repository.NewDB(pool)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	debtorRepo := repository.NewDebtorRepository(db)
	userRepo := repository.NewUserRepository(db)

	auth := service.NewAuthService(userRepo, testSecret, time.Hour)
	return handler.NewHandler(
		auth,
		service.NewProductService(productRepo),
		service.NewSaleService(saleRepo, productRepo),
		service.NewDebtorService(debtorRepo),
	)
}

func seedUser(t *testing.T, pool *pgxpool.Pool, username, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	_, err = pool.Exec(context.Background(),
		"INSERT INTO users (username, password_hash) VALUES ($1, $2)", username, string(hash))
	if err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
}

func login(t *testing.T, h http.Handler, username, password string) string {
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp handler.LoginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode login response: %v", err)
	}
	return resp.Token
}

func doJSON(h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestLoginAndAuthGate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := setupHandler(t, pool)
	seedUser(t, pool, "ohana", "family")

	// No token
	w := doJSON(h, http.MethodGet, "/api/products/", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}

	// Wrong password
	body, _ := json.Marshal(map[string]string{"username": "ohana", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for bad credentials, got %d", rec.Code)
	}

	// Valid login unlocks the catalog
	token := login(t, h, "ohana", "family")
	w = doJSON(h, http.MethodGet, "/api/products/", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with token, got %d", w.Code)
	}
}

func TestProductValidation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := setupHandler(t, pool)
	seedUser(t, pool, "ohana", "family")
	token := login(t, h, "ohana", "family")

	// Missing fields
	w := doJSON(h, http.MethodPost, "/api/products/", token, model.Product{Name: "Soda"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for incomplete product, got %d", w.Code)
	}

	// Supplier outside the closed list
	w = doJSON(h, http.MethodPost, "/api/products/", token, model.Product{
		Name: "Soda", Price: 10, Stock: 5, Code: "S1", Supplier: "NotAVendor",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown supplier, got %d", w.Code)
	}

	// Valid product
	w = doJSON(h, http.MethodPost, "/api/products/", token, model.Product{
		Name: "Soda", Price: 10, Stock: 5, Code: "S1", Supplier: "Cocacola",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Deleting a non-existent id stays a no-op success
	w = doJSON(h, http.MethodDelete, "/api/products/9999", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 deleting missing product, got %d", w.Code)
	}
}

func TestProductDuplicateCode(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := setupHandler(t, pool)
	seedUser(t, pool, "ohana", "family")
	token := login(t, h, "ohana", "family")

	w := doJSON(h, http.MethodPost, "/api/products/", token, model.Product{
		Name: "Soda", Price: 10, Stock: 5, Code: "S1", Supplier: "Cocacola",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// Creating a second product with the same code is a validation error,
	// not a server failure
	w = doJSON(h, http.MethodPost, "/api/products/", token, model.Product{
		Name: "Other Soda", Price: 12, Stock: 3, Code: "S1", Supplier: "Pepsi",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for duplicate code, got %d: %s", w.Code, w.Body.String())
	}

	// Updating a product onto an existing code collides the same way
	w = doJSON(h, http.MethodPost, "/api/products/", token, model.Product{
		Name: "Chips", Price: 15, Stock: 4, Code: "C1", Supplier: "Barcel",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var chips model.Product
	if err := json.Unmarshal(w.Body.Bytes(), &chips); err != nil {
		t.Fatalf("Failed to decode product: %v", err)
	}
	chips.Code = "S1"
	w = doJSON(h, http.MethodPut, fmt.Sprintf("/api/products/%d", chips.ID), token, chips)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 updating onto duplicate code, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateSale_DecrementsStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := setupHandler(t, pool)
	seedUser(t, pool, "ohana", "family")
	token := login(t, h, "ohana", "family")

	ctx := context.Background()
	pool.Exec(ctx, "INSERT INTO products (id, name, price, stock, code, supplier) VALUES (1, 'Soda', 10, 5, 'S1', 'Cocacola')")
	pool.Exec(ctx, "INSERT INTO products (id, name, price, stock, code, supplier) VALUES (2, 'Chips', 15, 3, 'C1', 'Barcel')")

	req := handler.CreateSaleRequest{
		Items: []model.SaleItem{
			{ProductID: 1, Name: "Soda", Price: 10, Qty: 2},
			{ProductID: 2, Name: "Chips", Price: 15, Qty: 1},
		},
		Total:          35,
		AmountReceived: 40,
	}
	w := doJSON(h, http.MethodPost, "/api/sales/", token, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var sale model.Sale
	if err := json.Unmarshal(w.Body.Bytes(), &sale); err != nil {
		t.Fatalf("Failed to decode sale: %v", err)
	}
	if sale.Total != 35 {
		t.Errorf("Expected total 35, got %.2f", sale.Total)
	}
	if sale.Change != 5 {
		t.Errorf("Expected change 5, got %.2f", sale.Change)
	}
	if sale.Folio == "" {
		t.Error("Expected a folio to be assigned")
	}

	var stock int
	pool.QueryRow(ctx, "SELECT stock FROM products WHERE id = 1").Scan(&stock)
	if stock != 3 {
		t.Errorf("Expected stock 3 after sale, got %d", stock)
	}
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := setupHandler(t, pool)
	seedUser(t, pool, "ohana", "family")
	token := login(t, h, "ohana", "family")

	ctx := context.Background()
	pool.Exec(ctx, "INSERT INTO products (id, name, price, stock, code, supplier) VALUES (1, 'Soda', 10, 1, 'S1', 'Cocacola')")

	req := handler.CreateSaleRequest{
		Items: []model.SaleItem{{ProductID: 1, Name: "Soda", Price: 10, Qty: 2}},
	}
	w := doJSON(h, http.MethodPost, "/api/sales/", token, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for over-sell, got %d", w.Code)
	}

	// Rejected sale must not touch stock
	var stock int
	pool.QueryRow(ctx, "SELECT stock FROM products WHERE id = 1").Scan(&stock)
	if stock != 1 {
		t.Errorf("Expected stock unchanged at 1, got %d", stock)
	}
}

func TestCreateSale_Concurrency(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := setupHandler(t, pool)
	seedUser(t, pool, "ohana", "family")
	token := login(t, h, "ohana", "family")

	ctx := context.Background()
	initialStock := 10
	pool.Exec(ctx, "INSERT INTO products (id, name, price, stock, code, supplier) VALUES (1, 'Soda', 10, $1, 'S1', 'Cocacola')", initialStock)

	concurrentRequests := 50
	results := make(chan int, concurrentRequests)

	for i := 0; i < concurrentRequests; i++ {
		go func() {
			req := handler.CreateSaleRequest{
				Items: []model.SaleItem{{ProductID: 1, Name: "Soda", Price: 10, Qty: 1}},
			}
			w := doJSON(h, http.MethodPost, "/api/sales/", token, req)
			results <- w.Code
		}()
	}

	successCount := 0
	for i := 0; i < concurrentRequests; i++ {
		if <-results == http.StatusCreated {
			successCount++
		}
	}

	if successCount != initialStock {
		t.Errorf("Expected %d successful sales, got %d", initialStock, successCount)
	}

	var stock int
	pool.QueryRow(ctx, "SELECT stock FROM products WHERE id = 1").Scan(&stock)
	if stock != 0 {
		t.Errorf("Expected stock 0, got %d", stock)
	}
}

func TestDebtorLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	h := setupHandler(t, pool)
	seedUser(t, pool, "ohana", "family")
	token := login(t, h, "ohana", "family")

	// Create with items; total is recomputed server-side
	w := doJSON(h, http.MethodPost, "/api/debtors/", token, map[string]any{
		"name":  "Maria",
		"phone": "555-1234",
		"items": []model.DebtorItem{
			{Product: "Bread", Price: 5, Qty: 2},
			{Product: "Milk", Price: 3, Qty: 1},
		},
		"total": 999, // deliberately wrong
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var d model.Debtor
	json.Unmarshal(w.Body.Bytes(), &d)
	if d.Total != 13 {
		t.Errorf("Expected recomputed total 13, got %.2f", d.Total)
	}

	// Mark paid, twice; the second must still succeed
	d.Paid = true
	for i := 0; i < 2; i++ {
		w = doJSON(h, http.MethodPut, fmt.Sprintf("/api/debtors/%d", d.ID), token, d)
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 marking paid (attempt %d), got %d", i+1, w.Code)
		}
	}

	// Pending counter drops to zero once paid
	w = doJSON(h, http.MethodGet, "/api/sales/pending", token, nil)
	var pending map[string]int
	json.Unmarshal(w.Body.Bytes(), &pending)
	if pending["count"] != 0 {
		t.Errorf("Expected 0 pending debtors, got %d", pending["count"])
	}

	// Delete, twice; second is a no-op
	for i := 0; i < 2; i++ {
		w = doJSON(h, http.MethodDelete, fmt.Sprintf("/api/debtors/%d", d.ID), token, nil)
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 deleting debtor (attempt %d), got %d", i+1, w.Code)
		}
	}
}
