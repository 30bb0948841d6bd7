package http

import (
	"errors"
	"net/http"
	"strings"

	"loan-portal/internal/domain/apperr"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var statusBySentinel = []struct {
	err  error
	code int
}{
	{apperr.ErrUnauthenticated, http.StatusUnauthorized},
	{apperr.ErrForbidden, http.StatusForbidden},
	{apperr.ErrNotFound, http.StatusNotFound},
	{apperr.ErrConflict, http.StatusConflict},
}

// publicMessage drops the trailing sentinel text from a wrapped error.
func publicMessage(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return msg
}

// respondError writes the error taxonomy as JSON. Anything outside it is a
// server fault and gets logged.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "validation failed", Details: ve.Fields})
	}
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return c.JSON(s.code, ErrorResponse{Error: publicMessage(err, s.err)})
		}
	}
	log.Error("request failed",
		zap.Error(err),
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// bindAndValidate writes 400/422 itself and reports false when it did.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}
