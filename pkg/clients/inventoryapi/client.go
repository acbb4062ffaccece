package inventoryapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/mamadbah2/stockpanel/internal/config"
	"github.com/mamadbah2/stockpanel/internal/domain/models"
)

const requestIDHeader = "X-Request-ID"

// Client exposes the inventory backend's product and contact-message endpoints.
type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	ListContactMessages(ctx context.Context) ([]models.ContactMessage, error)
	CreateContactMessage(ctx context.Context, in models.ContactMessageInput) (*models.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id int) error
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inventory api %s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("inventory api %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsNotFound reports whether err carries a 404 from the backend.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a backend client using the provided configuration values.
func NewClient(cfg config.InventoryConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout).
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			if req.Header.Get(requestIDHeader) == "" {
				req.SetHeader(requestIDHeader, uuid.NewString())
			}
			return nil
		})

	return &APIClient{httpClient: restyClient}
}

// apiError is the error body the backend may return alongside a failure status.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *APIClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (c *APIClient) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	product := new(models.Product)
	if err := c.do(ctx, http.MethodPost, "/products", in, product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct replaces the whole record; the backend has no partial update.
func (c *APIClient) UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error) {
	product := new(models.Product)
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (c *APIClient) DeleteProduct(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

func (c *APIClient) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	if err := c.do(ctx, http.MethodGet, "/contact-messages", nil, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []models.ContactMessage{}
	}
	return messages, nil
}

func (c *APIClient) CreateContactMessage(ctx context.Context, in models.ContactMessageInput) (*models.ContactMessage, error) {
	message := new(models.ContactMessage)
	if err := c.do(ctx, http.MethodPost, "/contact-messages", in, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (c *APIClient) DeleteContactMessage(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/contact-messages/%d", id), nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, result any) error {
	apiErr := new(apiError)

	req := c.httpClient.R().
		SetContext(ctx).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("inventory api %s %s: %w", method, path, err)
	}

	if !resp.IsSuccess() {
		message := apiErr.Error
		if message == "" {
			message = apiErr.Message
		}
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode(), Message: message}
	}

	return nil
}
