package messages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockpanel/internal/domain/models"
	"github.com/mamadbah2/stockpanel/internal/domain/validation"
	"github.com/mamadbah2/stockpanel/pkg/clients/inventoryapi"
)

const (
	loadFailedMessage  = "failed to load contact messages"
	unreachableMessage = "could not reach the inventory backend"
)

// Client is the subset of the backend API used for contact messages.
type Client interface {
	ListContactMessages(ctx context.Context) ([]models.ContactMessage, error)
	CreateContactMessage(ctx context.Context, in models.ContactMessageInput) (*models.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id int) error
}

// State is a copy of the message list view.
type State struct {
	Messages []models.ContactMessage `json:"messages"`
	Loading  bool                    `json:"loading"`
	Error    string                  `json:"error,omitempty"`
}

// Service holds the contact messages shown in the admin panel.
type Service struct {
	client Client
	logger *zap.Logger

	mu       sync.RWMutex
	messages []models.ContactMessage
	inflight int
	errMsg   string
}

// NewService wires a new contact message service.
func NewService(client Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger, messages: []models.ContactMessage{}}
}

// Load fetches all messages. There is no fallback: on failure the previous
// list is kept and a user-facing error message is recorded in the state.
func (s *Service) Load(ctx context.Context) error {
	s.setLoading(1)
	defer s.setLoading(-1)

	messages, err := s.client.ListContactMessages(ctx)
	if err != nil {
		s.logger.Error("failed to load contact messages", zap.Error(err))

		var statusErr *inventoryapi.StatusError
		msg := unreachableMessage
		if errors.As(err, &statusErr) {
			msg = loadFailedMessage
		}

		s.mu.Lock()
		s.errMsg = msg
		s.mu.Unlock()
		return fmt.Errorf("load contact messages: %w", err)
	}

	s.mu.Lock()
	s.messages = append([]models.ContactMessage{}, messages...)
	s.errMsg = ""
	s.mu.Unlock()
	return nil
}

// Delete removes a message on the backend and then drops it from the local
// list without refetching.
func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.client.DeleteContactMessage(ctx, id); err != nil {
		s.logger.Error("failed to delete contact message", zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("delete contact message %d: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.messages[:0:0]
	for _, m := range s.messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	return nil
}

// Submit validates and sends a new contact message.
func (s *Service) Submit(ctx context.Context, in models.ContactMessageInput) (*models.ContactMessage, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Message = strings.TrimSpace(in.Message)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	created, err := s.client.CreateContactMessage(ctx, in)
	if err != nil {
		s.logger.Error("failed to submit contact message", zap.Error(err))
		return nil, fmt.Errorf("submit contact message: %w", err)
	}

	s.mu.Lock()
	s.messages = append(s.messages, *created)
	s.mu.Unlock()

	s.logger.Info("contact message submitted", zap.Int("id", created.ID))
	return created, nil
}

// Messages returns a copy of the current list.
func (s *Service) Messages() []models.ContactMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ContactMessage{}, s.messages...)
}

// Snapshot returns the whole view state.
func (s *Service) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Messages: append([]models.ContactMessage{}, s.messages...),
		Loading:  s.inflight > 0,
		Error:    s.errMsg,
	}
}

func (s *Service) setLoading(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight += delta
}
