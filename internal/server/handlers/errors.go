package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockpanel/internal/domain/validation"
	"github.com/mamadbah2/stockpanel/pkg/clients/inventoryapi"
)

var errInvalidID = errors.New("id must be a positive integer")

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity
	case inventoryapi.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return id, true
}
