package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpanel/internal/domain/models"
	"github.com/mamadbah2/stockpanel/internal/service/products"
)

// InventoryStore is the product store as driven by the HTTP layer.
type InventoryStore interface {
	Load(ctx context.Context) error
	Snapshot() products.State
	SetSearchTerm(term string)
	Find(id int) (models.Product, bool)
	Editing() (models.Product, bool)
	BeginEdit(p models.Product)
	CancelEdit()
	SubmitDraft(ctx context.Context, draft models.DraftForm, target *models.Product) error
	Delete(ctx context.Context, id int) error
	AdjustQuantity(ctx context.Context, id, delta int) error
}

// InventoryView is the payload rendered for the inventory screen.
type InventoryView struct {
	Products   []models.Product      `json:"products"`
	Stats      models.InventoryStats `json:"stats"`
	Loading    bool                  `json:"loading"`
	Source     products.Source       `json:"source"`
	SearchTerm string                `json:"searchTerm"`
	Warning    string                `json:"warning,omitempty"`
}

// DraftView is the payload rendered for the add/edit form.
type DraftView struct {
	Draft   *models.DraftForm `json:"draft"`
	Editing *models.Product   `json:"editing"`
}

type adjustRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// InventoryHandler exposes ProductStore operations over HTTP.
type InventoryHandler struct {
	store  InventoryStore
	logger *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(store InventoryStore, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{store: store, logger: logger}
}

// View renders the filtered list and summary figures. A search query
// parameter replaces the store's search term.
func (h *InventoryHandler) View(c *gin.Context) {
	if term, ok := c.GetQuery("search"); ok {
		h.store.SetSearchTerm(term)
	}
	c.JSON(http.StatusOK, h.view())
}

// Reload refetches the product list.
func (h *InventoryHandler) Reload(c *gin.Context) {
	if err := h.store.Load(c.Request.Context()); err != nil {
		h.logger.Warn("reload failed", zap.Error(err))
		respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, h.view())
}

// Draft renders the pending form.
func (h *InventoryHandler) Draft(c *gin.Context) {
	st := h.store.Snapshot()
	c.JSON(http.StatusOK, DraftView{Draft: st.Draft, Editing: st.Editing})
}

// BeginEdit opens the form for an existing product.
func (h *InventoryHandler) BeginEdit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, found := h.store.Find(id)
	if !found {
		respondError(c, http.StatusNotFound, products.ErrProductNotFound)
		return
	}

	h.store.BeginEdit(product)
	h.Draft(c)
}

// CancelEdit discards the pending form.
func (h *InventoryHandler) CancelEdit(c *gin.Context) {
	h.store.CancelEdit()
	c.Status(http.StatusNoContent)
}

// SubmitDraft creates a product, or updates the one being edited.
func (h *InventoryHandler) SubmitDraft(c *gin.Context) {
	var draft models.DraftForm
	if err := c.ShouldBindJSON(&draft); err != nil {
		h.logger.Warn("invalid draft payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	var target *models.Product
	if editing, ok := h.store.Editing(); ok {
		target = &editing
	}

	status := http.StatusCreated
	if target != nil {
		status = http.StatusOK
	}
	h.respondAfterWrite(c, status, h.store.SubmitDraft(c.Request.Context(), draft, target))
}

// Delete removes a product. The client is expected to have confirmed.
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	h.respondAfterWrite(c, http.StatusOK, h.store.Delete(c.Request.Context(), id))
}

// Adjust moves a product's quantity by the requested delta.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, errors.New("delta is required"))
		return
	}

	h.respondAfterWrite(c, http.StatusOK, h.store.AdjustQuantity(c.Request.Context(), id, *req.Delta))
}

// respondAfterWrite renders the view once a write has been attempted. The
// write itself succeeded when only the follow-up reload failed, so that case
// keeps the success status and carries a warning.
func (h *InventoryHandler) respondAfterWrite(c *gin.Context, status int, err error) {
	var fetchErr *products.FetchError
	if err != nil && !errors.As(err, &fetchErr) {
		respondError(c, statusFor(err), err)
		return
	}

	view := h.view()
	if fetchErr != nil {
		h.logger.Warn("reload after write failed", zap.Error(fetchErr))
		view.Warning = fetchErr.Error()
	}
	c.JSON(status, view)
}

func (h *InventoryHandler) view() InventoryView {
	st := h.store.Snapshot()
	return InventoryView{
		Products:   products.FilterProducts(st.Products, st.SearchTerm),
		Stats:      products.ComputeStats(st.Products),
		Loading:    st.Loading,
		Source:     st.Source,
		SearchTerm: st.SearchTerm,
	}
}
