package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chi157/Exchange-Platform-sub000/internal/service"
)

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorPayload `json:"error"`
}

func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: errorPayload{
			Code:    code,
			Message: message,
		},
	}
}

// respondServiceError maps the service sentinels onto HTTP statuses; message
// names the entity the failed lookup or check was about.
func respondServiceError(c echo.Context, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", message))
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("forbidden", "not allowed"))
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, NewErrorResponse("conflict", message))
	case errors.Is(err, service.ErrBadRequest):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", message))
	default:
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", message))
	}
}
