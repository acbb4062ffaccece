package inventoryapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockpanel/internal/config"
	"github.com/mamadbah2/stockpanel/internal/domain/models"
	"github.com/mamadbah2/stockpanel/internal/testutil/fakebackend"
	"github.com/mamadbah2/stockpanel/pkg/clients/inventoryapi"
)

func newClient(baseURL string) *inventoryapi.APIClient {
	return inventoryapi.NewClient(config.InventoryConfig{BaseURL: baseURL, Timeout: 2 * time.Second})
}

func TestAPIClient_ProductCRUD(t *testing.T) {
	backend := fakebackend.New(t)
	backend.SeedProducts(models.Product{ID: 1, Name: "Mouse", Quantity: 3, Price: 29.99, MinStock: 10})
	client := newClient(backend.BaseURL())
	ctx := context.Background()

	products, err := client.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Mouse", products[0].Name)
	assert.Equal(t, 10, products[0].MinStock)

	created, err := client.CreateProduct(ctx, models.ProductInput{Name: "Pad", Quantity: 10, Price: 5.5, MinStock: 5})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ID)

	reqs := backend.RequestsFor(http.MethodPost, "/api/products")
	require.Len(t, reqs, 1)
	assert.JSONEq(t, `{"name":"Pad","quantity":10,"price":5.5,"minStock":5}`, string(reqs[0].Body))

	updated, err := client.UpdateProduct(ctx, 2, models.ProductInput{Name: "Pad XL", Quantity: 4, Price: 6, MinStock: 5})
	require.NoError(t, err)
	assert.Equal(t, "Pad XL", updated.Name)

	require.NoError(t, client.DeleteProduct(ctx, 1))
	assert.Equal(t, []models.Product{{ID: 2, Name: "Pad XL", Quantity: 4, Price: 6, MinStock: 5}}, backend.Products())
}

func TestAPIClient_EmptyListIsNotNil(t *testing.T) {
	backend := fakebackend.New(t)
	client := newClient(backend.BaseURL())

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestAPIClient_StatusError(t *testing.T) {
	backend := fakebackend.New(t)
	client := newClient(backend.BaseURL())

	err := client.DeleteProduct(context.Background(), 42)
	require.Error(t, err)

	var statusErr *inventoryapi.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "product not found", statusErr.Message)
	assert.True(t, inventoryapi.IsNotFound(err))

	backend.Fail(http.MethodGet, "/api/products", http.StatusInternalServerError)
	_, err = client.ListProducts(context.Background())
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.False(t, inventoryapi.IsNotFound(err))
}

func TestAPIClient_TransportError(t *testing.T) {
	backend := fakebackend.New(t)
	client := newClient(backend.BaseURL())
	backend.Close()

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)

	var statusErr *inventoryapi.StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestAPIClient_SendsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.Product{})
	}))
	t.Cleanup(srv.Close)

	_, err := newClient(srv.URL + "/api/").ListProducts(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, got)
}

func TestAPIClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	client := inventoryapi.NewClient(config.InventoryConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := client.ListProducts(context.Background())
	assert.Error(t, err)
}

func TestAPIClient_ContactMessages(t *testing.T) {
	backend := fakebackend.New(t)
	backend.SeedMessages(models.ContactMessage{ID: 7, Name: "Ana", Email: "ana@example.com", Message: "Hola", CreatedAt: "2025-06-01T10:00:00"})
	client := newClient(backend.BaseURL())
	ctx := context.Background()

	messages, err := client.ListContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "2025-06-01T10:00:00", messages[0].CreatedAt)

	created, err := client.CreateContactMessage(ctx, models.ContactMessageInput{Name: "Luis", Email: "luis@example.com", Message: "Stock?"})
	require.NoError(t, err)
	assert.Equal(t, "Luis", created.Name)

	require.NoError(t, client.DeleteContactMessage(ctx, 7))
	assert.True(t, inventoryapi.IsNotFound(client.DeleteContactMessage(ctx, 7)))
}
