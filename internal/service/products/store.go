package products

import (
	"context"
	"math"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpanel/internal/domain/models"
)

// Source tells where the current product list came from.
type Source string

const (
	SourceNone     Source = ""
	SourceBackend  Source = "backend"
	SourceFallback Source = "fallback"
)

// Client is the subset of the backend API the store needs.
type Client interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int, in models.ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

// State is a consistent copy of everything the store holds.
type State struct {
	Products   []models.Product  `json:"products"`
	Loading    bool              `json:"loading"`
	Source     Source            `json:"source"`
	SearchTerm string            `json:"searchTerm"`
	Draft      *models.DraftForm `json:"draft,omitempty"`
	Editing    *models.Product   `json:"editing,omitempty"`
}

// Store keeps the product list in step with the backend. Every mutation is
// followed by a full reload rather than a local patch.
type Store struct {
	client   Client
	fallback FallbackProvider
	logger   *zap.Logger

	mu         sync.RWMutex
	products   []models.Product
	source     Source
	inflight   int
	searchTerm string
	draft      *models.DraftForm
	editing    *models.Product
}

// NewStore wires a store. A nil fallback means load failures are returned.
func NewStore(client Client, fallback FallbackProvider, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == nil {
		fallback = NoFallback
	}
	return &Store{
		client:   client,
		fallback: fallback,
		logger:   logger,
		products: []models.Product{},
	}
}

// Load replaces the list with the backend's. When the backend fails, the
// fallback provider's list is used instead and nil is returned; only when
// the fallback has nothing either is a *FetchError returned, leaving the
// previous list in place.
func (s *Store) Load(ctx context.Context) error {
	done := s.startLoading()
	defer done()

	products, err := s.client.ListProducts(ctx)
	if err == nil {
		s.replace(products, SourceBackend)
		s.logger.Debug("products loaded", zap.Int("count", len(products)))
		return nil
	}

	s.logger.Error("failed to load products from backend", zap.Error(err))

	fallback, fbErr := s.fallback.FallbackProducts(ctx)
	if fbErr != nil {
		s.logger.Warn("no fallback products", zap.Error(fbErr))
		return &FetchError{Err: err}
	}

	s.replace(fallback, SourceFallback)
	s.logger.Warn("serving fallback products", zap.Int("count", len(fallback)))
	return nil
}

// Products returns a copy of the current list.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Product{}, s.products...)
}

// Find looks a product up in the current list.
func (s *Store) Find(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Loading reports whether a load, save or delete is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inflight > 0
}

// Source reports where the current list came from.
func (s *Store) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// SetSearchTerm sets the term Filtered matches against.
func (s *Store) SetSearchTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchTerm = term
}

// SearchTerm returns the current search term.
func (s *Store) SearchTerm() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchTerm
}

// Filtered applies the current search term to the current list.
func (s *Store) Filtered() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterProducts(s.products, s.searchTerm)
}

// Stats computes the summary aggregates of the current list.
func (s *Store) Stats() models.InventoryStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.products)
}

// Snapshot returns the whole store state at once.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Products:   append([]models.Product{}, s.products...),
		Loading:    s.inflight > 0,
		Source:     s.source,
		SearchTerm: s.searchTerm,
	}
	if s.draft != nil {
		d := *s.draft
		st.Draft = &d
	}
	if s.editing != nil {
		p := *s.editing
		st.Editing = &p
	}
	return st
}

// Draft returns the pending form, if one is open.
func (s *Store) Draft() (models.DraftForm, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft == nil {
		return models.DraftForm{}, false
	}
	return *s.draft, true
}

// Editing returns the product being edited, if any.
func (s *Store) Editing() (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.editing == nil {
		return models.Product{}, false
	}
	return *s.editing, true
}

// BeginEdit switches the form to update mode for p.
func (s *Store) BeginEdit(p models.Product) {
	draft := models.DraftFromProduct(p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = &p
	s.draft = &draft
}

// CancelEdit discards the pending form and editing target.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
	s.editing = nil
}

// SubmitDraft creates a product when target is nil and replaces target
// otherwise. A draft that fails validation leaves the store untouched. A
// valid draft stays pending until the save succeeds. After a successful save
// the list is reloaded; a reload failure is returned but does not undo the
// save.
func (s *Store) SubmitDraft(ctx context.Context, draft models.DraftForm, target *models.Product) error {
	input, err := ParseDraft(draft)
	if err != nil {
		return err
	}

	s.setPending(draft, target)

	done := s.startLoading()
	defer done()

	if target == nil {
		_, err = s.client.CreateProduct(ctx, input)
	} else {
		_, err = s.client.UpdateProduct(ctx, target.ID, input)
	}
	if err != nil {
		saveErr := &SaveError{Err: err}
		if target != nil {
			saveErr.ID = target.ID
		}
		s.logger.Error("failed to save product", zap.Error(saveErr))
		return saveErr
	}

	loadErr := s.Load(ctx)
	s.CancelEdit()
	return loadErr
}

// Delete removes a product and reloads the list. Confirmation is the
// caller's job.
func (s *Store) Delete(ctx context.Context, id int) error {
	done := s.startLoading()
	defer done()

	if err := s.client.DeleteProduct(ctx, id); err != nil {
		delErr := &DeleteError{ID: id, Err: err}
		s.logger.Error("failed to delete product", zap.Error(delErr))
		return delErr
	}

	return s.Load(ctx)
}

// AdjustQuantity moves a product's stock by delta, clamped to
// [0, math.MaxInt], by sending the full record back. Unknown ids are ignored.
func (s *Store) AdjustQuantity(ctx context.Context, id, delta int) error {
	product, ok := s.Find(id)
	if !ok {
		s.logger.Debug("adjust ignored for unknown product", zap.Int("id", id))
		return nil
	}

	input := product.Input()
	input.Quantity = adjustedQuantity(product.Quantity, delta)

	if _, err := s.client.UpdateProduct(ctx, id, input); err != nil {
		adjErr := &AdjustError{ID: id, Err: err}
		s.logger.Error("failed to adjust quantity", zap.Error(adjErr), zap.Int("delta", delta))
		return adjErr
	}

	return s.Load(ctx)
}

func adjustedQuantity(quantity, delta int) int {
	switch {
	case delta > 0 && quantity > math.MaxInt-delta:
		return math.MaxInt
	case delta < 0 && quantity < math.MinInt-delta:
		return 0
	}
	return max(0, quantity+delta)
}

func (s *Store) setPending(draft models.DraftForm, target *models.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = &draft
	if target != nil {
		p := *target
		s.editing = &p
	} else {
		s.editing = nil
	}
}

func (s *Store) replace(products []models.Product, source Source) {
	if products == nil {
		products = []models.Product{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]models.Product{}, products...)
	s.source = source
}

func (s *Store) startLoading() func() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.inflight--
		s.mu.Unlock()
	}
}

// FilterProducts keeps the products whose name contains term, ignoring case.
// The input order is preserved and an empty term keeps everything.
func FilterProducts(products []models.Product, term string) []models.Product {
	needle := strings.ToLower(term)
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ComputeStats derives the summary figures. TotalValue is not rounded.
func ComputeStats(products []models.Product) models.InventoryStats {
	stats := models.InventoryStats{
		TotalCount: len(products),
		LowStock:   []models.Product{},
	}
	for _, p := range products {
		stats.TotalValue += p.Value()
		if p.LowStock() {
			stats.LowStock = append(stats.LowStock, p)
		}
	}
	return stats
}
