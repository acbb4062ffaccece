package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/mamadbah2/stockpanel/internal/domain/models"
)

// FallbackProvider supplies a product list when the backend cannot be read.
type FallbackProvider interface {
	FallbackProducts(ctx context.Context) ([]models.Product, error)
}

// FallbackFunc adapts a function to FallbackProvider.
type FallbackFunc func(ctx context.Context) ([]models.Product, error)

// FallbackProducts calls f.
func (f FallbackFunc) FallbackProducts(ctx context.Context) ([]models.Product, error) {
	return f(ctx)
}

// SampleProducts returns a fresh copy of the built-in sample inventory.
func SampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Laptop Dell XPS", Quantity: 15, Price: 899.99, MinStock: 5},
		{ID: 2, Name: "Mouse Inalámbrico", Quantity: 3, Price: 29.99, MinStock: 10},
		{ID: 3, Name: "Teclado Mecánico", Quantity: 25, Price: 79.99, MinStock: 8},
		{ID: 4, Name: "Monitor 24\"", Quantity: 12, Price: 199.99, MinStock: 6},
	}
}

// SampleFallback always yields SampleProducts.
var SampleFallback FallbackProvider = FallbackFunc(func(context.Context) ([]models.Product, error) {
	return SampleProducts(), nil
})

// NoFallback never yields data, so load failures surface as *FetchError.
var NoFallback FallbackProvider = FallbackFunc(func(context.Context) ([]models.Product, error) {
	return nil, ErrNoFallback
})

// SnapshotSource reads the most recent stored inventory snapshot.
type SnapshotSource interface {
	LatestSnapshot(ctx context.Context) (*models.InventorySnapshot, error)
}

// SnapshotFallback serves the products of the latest stored snapshot.
func SnapshotFallback(src SnapshotSource) FallbackProvider {
	return FallbackFunc(func(ctx context.Context) ([]models.Product, error) {
		snapshot, err := src.LatestSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("latest snapshot: %w", err)
		}
		if snapshot == nil {
			return nil, ErrNoFallback
		}
		return append([]models.Product(nil), snapshot.Products...), nil
	})
}

// ChainFallback tries each provider in order and returns the first success.
func ChainFallback(providers ...FallbackProvider) FallbackProvider {
	return FallbackFunc(func(ctx context.Context) ([]models.Product, error) {
		var errs []error
		for _, p := range providers {
			products, err := p.FallbackProducts(ctx)
			if err == nil {
				return products, nil
			}
			errs = append(errs, err)
		}
		if len(errs) == 0 {
			return nil, ErrNoFallback
		}
		return nil, errors.Join(errs...)
	})
}
