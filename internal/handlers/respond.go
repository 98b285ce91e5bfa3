package handlers

import (
	"errors"
	"net/http"

	"loanflow/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

// respondError maps the engine's error taxonomy to HTTP in one place.
func respondError(c *gin.Context, err error) {
	var ve *lifecycle.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Reason, "field": ve.Field})
	case errors.Is(err, lifecycle.ErrValidationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		c.JSON(http.StatusForbidden, gin.H{"error": "transition not permitted for this role and status"})
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, lifecycle.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": "case was modified concurrently, re-fetch and retry"})
	case errors.Is(err, lifecycle.ErrConfiguration):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
