package products

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockpanel/internal/domain/models"
	"github.com/mamadbah2/stockpanel/internal/domain/validation"
)

// ParseDraft turns raw form text into a product body. Name, quantity and
// price are required; minStock falls back to models.DefaultMinStock when it
// is blank, not a whole number or negative.
func ParseDraft(draft models.DraftForm) (models.ProductInput, error) {
	name := strings.TrimSpace(draft.Name)
	rawQuantity := strings.TrimSpace(draft.Quantity)
	rawPrice := strings.TrimSpace(draft.Price)

	switch {
	case name == "":
		return models.ProductInput{}, &ValidationError{Field: "name", Message: "is required"}
	case rawQuantity == "":
		return models.ProductInput{}, &ValidationError{Field: "quantity", Message: "is required"}
	case rawPrice == "":
		return models.ProductInput{}, &ValidationError{Field: "price", Message: "is required"}
	}

	quantity, err := strconv.Atoi(rawQuantity)
	if err != nil {
		return models.ProductInput{}, &ValidationError{Field: "quantity", Message: "must be a whole number"}
	}

	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return models.ProductInput{}, &ValidationError{Field: "price", Message: "must be a number"}
	}
	// Out-of-range values overflow to Inf.
	priceValue := price.InexactFloat64()
	if math.IsInf(priceValue, 0) || math.IsNaN(priceValue) {
		return models.ProductInput{}, &ValidationError{Field: "price", Message: "must be a number"}
	}

	minStock := models.DefaultMinStock
	if v, err := strconv.Atoi(strings.TrimSpace(draft.MinStock)); err == nil && v >= 0 {
		minStock = v
	}

	input := models.ProductInput{
		Name:     name,
		Quantity: quantity,
		Price:    priceValue,
		MinStock: minStock,
	}

	if err := validation.Struct(input); err != nil {
		return models.ProductInput{}, err
	}

	return input, nil
}
