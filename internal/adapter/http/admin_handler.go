package http

import (
	"net/http"

	"loan-portal/internal/adapter/middleware"
	"loan-portal/internal/usecase/admin"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AdminHandler struct {
	uc  *admin.Usecase
	log *zap.Logger
}

func NewAdminHandler(uc *admin.Usecase, log *zap.Logger) *AdminHandler {
	return &AdminHandler{uc: uc, log: log}
}

func (h *AdminHandler) Overview(c echo.Context) error {
	out, err := h.uc.Overview(c.Request().Context(), middleware.PrincipalFrom(c))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, out)
}
