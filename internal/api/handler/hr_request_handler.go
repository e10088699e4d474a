package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/protorh/protorh-api/internal/api/metrics"
	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// HRRequestHandler serves the /rh/msg endpoints.
type HRRequestHandler struct {
	service ports.HRRequestService
}

func NewHRRequestHandler(service ports.HRRequestService) *HRRequestHandler {
	return &HRRequestHandler{service: service}
}

// Create handles POST /rh/msg/add.
//
// @Summary      Open an HR request
// @Tags         hr-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHRRequestRequest  true  "Owner and content"
// @Success      201   {object}  hrRequestResponse
// @Failure      400   {object}  errorResponse
// @Router       /rh/msg/add [post]
func (h *HRRequestHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req createHRRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.service.Create(c.Request().Context(), claims, ports.CreateHRRequestInput{
		OwnerID: req.UserID,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	metrics.HRRequestMutationsTotal.WithLabelValues(string(domain.AuditHRRequestCreated)).Inc()
	return c.JSON(http.StatusCreated, toHRRequestResponse(r))
}

// Update handles POST /rh/msg/update.
//
// @Summary      Edit an HR request
// @Tags         hr-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateHRRequestRequest  true  "Request id and new content"
// @Success      200   {object}  hrRequestResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /rh/msg/update [post]
func (h *HRRequestHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req updateHRRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.service.Update(c.Request().Context(), claims, req.ID, req.Content)
	if err != nil {
		return err
	}
	metrics.HRRequestMutationsTotal.WithLabelValues(string(domain.AuditHRRequestEdited)).Inc()
	return c.JSON(http.StatusOK, toHRRequestResponse(r))
}

// Remove handles POST /rh/msg/remove. The request is closed and hidden,
// never deleted.
//
// @Summary      Close an HR request
// @Tags         hr-requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      removeHRRequestRequest  true  "Request id"
// @Success      200   {object}  hrRequestResponse
// @Failure      404   {object}  errorResponse
// @Router       /rh/msg/remove [post]
func (h *HRRequestHandler) Remove(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req removeHRRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	r, err := h.service.Close(c.Request().Context(), claims, req.ID)
	if err != nil {
		return err
	}
	metrics.HRRequestMutationsTotal.WithLabelValues(string(domain.AuditHRRequestClosed)).Inc()
	return c.JSON(http.StatusOK, toHRRequestResponse(r))
}

// List handles GET /rh/msg.
//
// @Summary      List HR requests
// @Tags         hr-requests
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   hrRequestResponse
// @Router       /rh/msg [get]
func (h *HRRequestHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	list, err := h.service.List(c.Request().Context(), claims)
	if err != nil {
		return err
	}
	out := make([]hrRequestResponse, len(list))
	for i := range list {
		out[i] = toHRRequestResponse(&list[i])
	}
	return c.JSON(http.StatusOK, out)
}
