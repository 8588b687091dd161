package handlers

import (
	"net/http"

	"busline/internal/domain"
	"busline/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"details":    details,
		"request_id": middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses. Seat conflicts
// carry the conflicting seat codes in details so the UI can prompt a
// reselection.
func RespondDomainError(c *gin.Context, err error) {
	if sc, ok := domain.IsSeatConflict(err); ok {
		respondError(c, http.StatusConflict, "seat_conflict", sc.Error(), gin.H{"seats": sc.Seats})
		return
	}
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsStorage(err):
		respondError(c, http.StatusServiceUnavailable, "storage_unavailable", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
