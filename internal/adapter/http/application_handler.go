package http

import (
	"net/http"
	"strconv"

	"loan-portal/internal/adapter/middleware"
	"loan-portal/internal/domain/access"
	"loan-portal/internal/usecase/application"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ApplicationHandler struct {
	uc  *application.Usecase
	log *zap.Logger
}

func NewApplicationHandler(uc *application.Usecase, log *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{uc: uc, log: log}
}

// Amount and income bounds that depend on configuration are checked by the use case.
type createApplicationReq struct {
	Amount     int64  `json:"amount"     validate:"gt=0"`
	Tenure     int    `json:"tenure"     validate:"min=1,max=120"`
	Income     int64  `json:"income"     validate:"gt=0"`
	Employment string `json:"employment" validate:"required,notblank,min=2,max=80"`
	Purpose    string `json:"purpose"    validate:"required,notblank,min=2,max=80"`
	Collateral string `json:"collateral" validate:"max=200"`
	Notes      string `json:"notes"      validate:"max=500"`
}

type statusReq struct {
	Status     string `json:"status"     validate:"required,status"`
	AdminNotes string `json:"adminNotes" validate:"max=500"`
}

type noteReq struct {
	AdminNotes string `json:"adminNotes" validate:"required,notblank,min=2,max=500"`
}

type batchStatusReq struct {
	IDs    []uint64 `json:"ids"    validate:"required,min=1,max=500,dive,gt=0"`
	Status string   `json:"status" validate:"required,status"`
}

func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}

// authorized resolves the caller and rejects it before the body is read.
func (h *ApplicationHandler) authorized(c echo.Context, action access.Action) (*access.Principal, error) {
	p := middleware.PrincipalFrom(c)
	if err := access.Authorize(p, action, 0); err != nil {
		return nil, respondError(c, h.log, err)
	}
	return p, nil
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	p, err := h.authorized(c, access.CreateApplication)
	if p == nil {
		return err
	}
	var req createApplicationReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), p, application.CreateInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	in := application.ListInput{Status: c.QueryParam("status"), Search: c.QueryParam("search")}
	list, err := h.uc.List(c.Request().Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"applications": list})
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.PrincipalFrom(c), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	p, err := h.authorized(c, access.ReviewApplication)
	if p == nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application id"})
	}
	var req statusReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.UpdateStatus(c.Request().Context(), p, id, application.StatusInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) AddNote(c echo.Context) error {
	p, err := h.authorized(c, access.ReviewApplication)
	if p == nil {
		return err
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application id"})
	}
	var req noteReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.AddNote(c.Request().Context(), p, id, application.NoteInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) BatchUpdateStatus(c echo.Context) error {
	p, err := h.authorized(c, access.ReviewApplication)
	if p == nil {
		return err
	}
	var req batchStatusReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	n, err := h.uc.BatchUpdateStatus(c.Request().Context(), p, application.BatchStatusInput(req))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]int64{"updated": n})
}
