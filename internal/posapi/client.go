package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/ohana-pos/pos/internal/model"
)

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token means the request goes out unauthenticated (login).
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, handy for tests.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string, tokens TokenSource) *Client {
	return &Client{
		client: &http.Client{
			Transport: &AuthTransport{
				Tokens: tokens,
				Base:   http.DefaultTransport,
			},
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

// AuthTransport adds the bearer token and content negotiation headers.
type AuthTransport struct {
	Tokens TokenSource
	Base   http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Tokens != nil {
		if token := t.Tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "br")
	return t.Base.RoundTrip(req)
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). Rejections come back as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	if resp.Header.Get("Content-Encoding") == "br" {
		resp.Body = &readCloserWrapper{Reader: brotli.NewReader(resp.Body), Closer: resp.Body}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token. The token is returned,
// not stored; persisting it is the session layer's job.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	payload := map[string]string{"username": username, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", payload, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, p *model.Product) error {
	return c.do(ctx, http.MethodPost, "/api/products/", p, p)
}

func (c *Client) UpdateProduct(ctx context.Context, p *model.Product) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID), p, p)
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), nil, nil)
}

func (c *Client) ProductsCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.do(ctx, http.MethodGet, "/api/products/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) Sales(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := c.do(ctx, http.MethodGet, "/api/sales/", nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Client) DailySales(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := c.do(ctx, http.MethodGet, "/api/sales/daily", nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Client) CreateSale(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	var sale Sale
	if err := c.do(ctx, http.MethodPost, "/api/sales/", req, &sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (c *Client) SalesTotal(ctx context.Context) (float64, error) {
	var resp totalResponse
	if err := c.do(ctx, http.MethodGet, "/api/sales/total", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Total, nil
}

func (c *Client) PendingCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.do(ctx, http.MethodGet, "/api/sales/pending", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) Debtors(ctx context.Context) ([]model.Debtor, error) {
	var debtors []model.Debtor
	if err := c.do(ctx, http.MethodGet, "/api/debtors/", nil, &debtors); err != nil {
		return nil, err
	}
	return debtors, nil
}

func (c *Client) CreateDebtor(ctx context.Context, d *model.Debtor) error {
	return c.do(ctx, http.MethodPost, "/api/debtors/", d, d)
}

func (c *Client) UpdateDebtor(ctx context.Context, d *model.Debtor) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/debtors/%d", d.ID), d, d)
}

func (c *Client) DeleteDebtor(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/debtors/%d", id), nil, nil)
}

func (c *Client) ClientsCount(ctx context.Context) (int, error) {
	var resp countResponse
	if err := c.do(ctx, http.MethodGet, "/api/clients/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

type readCloserWrapper struct {
	io.Reader
	io.Closer
}

func (r *readCloserWrapper) Read(p []byte) (n int, err error) {
	return r.Reader.Read(p)
}

func (r *readCloserWrapper) Close() error {
	return r.Closer.Close()
}
