package products

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/stockpanel/internal/domain/validation"
)

// ErrNoFallback is returned by providers that have no data to offer.
var ErrNoFallback = errors.New("no fallback products available")

// ErrProductNotFound indicates the id is not in the current list.
var ErrProductNotFound = errors.New("product not found")

// ValidationError reports a draft field that is missing or malformed.
// No request is sent to the backend when it is returned.
type ValidationError = validation.Error

// FetchError reports that the product list could not be loaded and no
// fallback data was available.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("load products: %v", e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// SaveError reports a failed create (ID == 0) or update. The draft is kept.
type SaveError struct {
	ID  int
	Err error
}

func (e *SaveError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("create product: %v", e.Err)
	}
	return fmt.Sprintf("update product %d: %v", e.ID, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// DeleteError reports a failed delete. The list is left unchanged.
type DeleteError struct {
	ID  int
	Err error
}

func (e *DeleteError) Error() string { return fmt.Sprintf("delete product %d: %v", e.ID, e.Err) }
func (e *DeleteError) Unwrap() error { return e.Err }

// AdjustError reports a failed quantity adjustment.
type AdjustError struct {
	ID  int
	Err error
}

func (e *AdjustError) Error() string { return fmt.Sprintf("adjust quantity of product %d: %v", e.ID, e.Err) }
func (e *AdjustError) Unwrap() error { return e.Err }
