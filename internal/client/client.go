package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/ridwanfathin/purchase-manager-service/internal/model"
)

const (
	defaultTimeout     = 30 * time.Second
	healthCheckTimeout = 5 * time.Second
)

// ErrUnavailable wraps transport failures: the API could not be reached or
// the response could not be read
var ErrUnavailable = errors.New("purchase API unavailable")

// APIError is a non-2xx answer from the purchase API
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is a 404 from the purchase API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to the purchase API over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the purchase API client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new purchase API client
func NewClient(config *Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// UploadPurchase sends the purchase fields and the receipt as multipart form data
func (c *Client) UploadPurchase(ctx context.Context, input domain.PurchaseInput, filename string, receipt io.Reader) (*model.UploadPurchaseResponse, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fields := [][2]string{
		{"customer_name", input.CustomerName},
		{"customer_surname", input.CustomerSurname},
		{"customer_cf", input.CustomerCF},
		{"credit_card", input.CreditCard},
		{"product_name", input.ProductName},
		{"price", strconv.FormatFloat(input.Price, 'f', -1, 64)},
		{"date", input.Date},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	part, err := w.CreateFormFile("receipt", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create receipt part: %w", err)
	}
	if _, err := io.Copy(part, receipt); err != nil {
		return nil, fmt.Errorf("failed to copy receipt: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var out model.UploadPurchaseResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchPurchases runs a search; empty filter fields are not sent
func (c *Client) SearchPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	params := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			params.Set(key, value)
		}
	}
	set("cf", filter.CustomerCF)
	set("name", filter.CustomerName)
	set("surname", filter.CustomerSurname)
	set("cc", filter.CreditCard)
	set("product", filter.ProductName)
	set("date", filter.Date)
	if filter.Limit > 0 {
		params.Set("limit", strconv.Itoa(filter.Limit))
		params.Set("offset", strconv.Itoa(filter.Offset))
	}

	endpoint := c.baseURL + "/search"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out []model.PurchaseResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}

	purchases := make([]domain.Purchase, 0, len(out))
	for _, p := range out {
		purchases = append(purchases, p.ToDomain())
	}
	return purchases, nil
}

// GetPurchase fetches one purchase. A missing purchase yields an error for
// which IsNotFound is true.
func (c *Client) GetPurchase(ctx context.Context, purchaseID int64) (*domain.Purchase, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/purchase/%d", c.baseURL, purchaseID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var out model.PurchaseResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	purchase := out.ToDomain()
	return &purchase, nil
}

// DeletePurchase deletes one purchase and its receipt
func (c *Client) DeletePurchase(ctx context.Context, purchaseID int64) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/purchase/%d", c.baseURL, purchaseID), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, &model.MessageResponse{})
}

// HealthCheck checks if the purchase API is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	var out model.HealthResponse
	if err := c.do(req, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("health check failed: status %q", out.Status)
	}
	return nil
}

// do sends req and decodes a 2xx JSON body into out
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Detail:     errorDetail(respBody),
		}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// errorDetail extracts {"detail": ...} from an error body, falling back to
// the raw text
func errorDetail(body []byte) string {
	var errResp model.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
		return errResp.Detail
	}
	return strings.TrimSpace(string(body))
}
