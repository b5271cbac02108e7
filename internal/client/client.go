// Package client talks to the inventory HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GianImpedovo/is-inventoryapp/internal/model"
	"github.com/shopspring/decimal"
)

const defaultTimeout = 10 * time.Second

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client is an inventory API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the API at baseURL.
// A nil httpClient gets a client with a default timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type productPayload struct {
	Name        *string     `json:"name,omitempty"`
	Category    *string     `json:"category,omitempty"`
	Quantity    *int64      `json:"quantity,omitempty"`
	Price       json.Number `json:"price,omitempty"`
	Description *string     `json:"description,omitempty"`
}

type productBody struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    *string         `json:"category"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Description *string         `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (b productBody) toModel() model.Product {
	return model.Product{
		ID:          b.ID,
		Name:        b.Name,
		Category:    b.Category,
		Quantity:    b.Quantity,
		Price:       b.Price,
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type statsBody struct {
	TotalProducts   int64           `json:"total_products"`
	TotalItems      int64           `json:"total_items"`
	TotalCategories int64           `json:"total_categories"`
	TotalValue      decimal.Decimal `json:"total_value"`
}

// ListProducts fetches the whole collection.
func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var bodies []productBody
	if err := c.do(ctx, http.MethodGet, "/products", nil, &bodies); err != nil {
		return nil, err
	}
	products := make([]model.Product, 0, len(bodies))
	for _, b := range bodies {
		products = append(products, b.toModel())
	}
	return products, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var body productBody
	if err := c.do(ctx, http.MethodGet, productPath(id), nil, &body); err != nil {
		return nil, err
	}
	product := body.toModel()
	return &product, nil
}

// CreateProduct creates a product from the fields set in fields.
func (c *Client) CreateProduct(ctx context.Context, fields model.ProductPatch) (*model.Product, error) {
	var body productBody
	if err := c.do(ctx, http.MethodPost, "/products", toPayload(fields), &body); err != nil {
		return nil, err
	}
	product := body.toModel()
	return &product, nil
}

// UpdateProduct sends a partial update; nil fields are left out of the request.
func (c *Client) UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch) (*model.Product, error) {
	var body productBody
	if err := c.do(ctx, http.MethodPut, productPath(id), toPayload(patch), &body); err != nil {
		return nil, err
	}
	product := body.toModel()
	return &product, nil
}

// DeleteProduct deletes a product and returns the id the server reports.
func (c *Client) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	var body struct {
		Deleted int64 `json:"deleted"`
	}
	if err := c.do(ctx, http.MethodDelete, productPath(id), nil, &body); err != nil {
		return 0, err
	}
	return body.Deleted, nil
}

// Stats fetches the server side aggregate figures.
func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var body statsBody
	if err := c.do(ctx, http.MethodGet, "/stats", nil, &body); err != nil {
		return model.Stats{}, err
	}
	return model.Stats{
		TotalProducts:   body.TotalProducts,
		TotalItems:      body.TotalItems,
		TotalCategories: body.TotalCategories,
		TotalValue:      body.TotalValue,
	}, nil
}

// Health returns nil when the API and its store are up.
func (c *Client) Health(ctx context.Context) error {
	var body struct {
		OK bool `json:"ok"`
		DB bool `json:"db"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &body); err != nil {
		return err
	}
	if !body.OK || !body.DB {
		return &APIError{StatusCode: http.StatusOK, Message: "service reported unhealthy"}
	}
	return nil
}

func productPath(id int64) string {
	return "/products/" + strconv.FormatInt(id, 10)
}

// toPayload sends the price as a JSON number; the API rejects quoted prices.
func toPayload(p model.ProductPatch) productPayload {
	payload := productPayload{
		Name:        p.Name,
		Category:    p.Category,
		Quantity:    p.Quantity,
		Description: p.Description,
	}
	if p.Price != nil {
		payload.Price = json.Number(p.Price.String())
	}
	return payload
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Message: msg}
}
