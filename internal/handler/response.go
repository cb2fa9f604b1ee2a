package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shuttle/internal/repository"
	"shuttle/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRiderID),
		errors.Is(err, service.ErrInvalidRouteStopID),
		errors.Is(err, service.ErrInvalidShuttleID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrMissingField):
		return http.StatusBadRequest

	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Conflict errors
	case errors.Is(err, service.ErrRiderBusy),
		errors.Is(err, repository.ErrTripNotActive),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
