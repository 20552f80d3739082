package handler

import (
	"errors"
	"net/http"

	"github.com/greenworld/garden-backend/internal/service"
	"github.com/labstack/echo/v4"
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

// respondEconomyError maps the economy sentinels onto their wire statuses;
// anything unrecognized is an internal failure.
func respondEconomyError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("not_found", err.Error()))
	case errors.Is(err, service.ErrInsufficientFunds):
		return c.JSON(http.StatusPaymentRequired, NewErrorResponse("not_enough_coins", err.Error()))
	case errors.Is(err, service.ErrMaxLevelReached):
		return c.JSON(http.StatusConflict, NewErrorResponse("max_level", err.Error()))
	case errors.Is(err, service.ErrUpgradeNotReady):
		return c.JSON(http.StatusConflict, NewErrorResponse("upgrade_not_ready", err.Error()))
	case errors.Is(err, service.ErrInvalidAmount):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_amount", err.Error()))
	case errors.Is(err, service.ErrInvalidName):
		return c.JSON(http.StatusBadRequest, NewErrorResponse("invalid_name", err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "unexpected error"))
	}
}
