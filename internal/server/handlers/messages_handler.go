package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpanel/internal/domain/models"
	"github.com/mamadbah2/stockpanel/internal/service/messages"
)

// MessageService is the contact message service as driven by the HTTP layer.
type MessageService interface {
	Load(ctx context.Context) error
	Snapshot() messages.State
	Delete(ctx context.Context, id int) error
	Submit(ctx context.Context, in models.ContactMessageInput) (*models.ContactMessage, error)
}

// MessagesHandler exposes contact messages over HTTP.
type MessagesHandler struct {
	svc    MessageService
	logger *zap.Logger
}

// NewMessagesHandler constructs the HTTP handler adapter.
func NewMessagesHandler(svc MessageService, logger *zap.Logger) *MessagesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessagesHandler{svc: svc, logger: logger}
}

// List fetches the messages and renders them.
func (h *MessagesHandler) List(c *gin.Context) {
	if err := h.svc.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": h.svc.Snapshot().Error})
		return
	}
	c.JSON(http.StatusOK, h.svc.Snapshot())
}

// Submit records a new contact message.
func (h *MessagesHandler) Submit(c *gin.Context) {
	var in models.ContactMessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid contact message payload", zap.Error(err))
		respondError(c, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	created, err := h.svc.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Delete removes a message.
func (h *MessagesHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, statusFor(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}
