package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ping-point/api-go/services"
)

// respondError maps the service error taxonomy onto transport status codes.
func respondError(c *gin.Context, err error) {
	var ve *services.ValidationError
	var cr *services.ContentRejectedError
	var ae *services.AlreadyExistsError

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.Is(err, services.ErrQuotaExceeded):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Daily creation quota exceeded"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &cr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Content rejected", "reason": cr.Reason})
	case errors.As(err, &ae):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists", "conflictName": ae.Name, "conflictId": ae.ID})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
