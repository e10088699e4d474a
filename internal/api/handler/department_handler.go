package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// DepartmentHandler serves department creation and membership.
type DepartmentHandler struct {
	service ports.DepartmentService
}

func NewDepartmentHandler(service ports.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

// Create handles POST /departements.
//
// @Summary      Create a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDepartmentRequest  true  "Department"
// @Success      201   {object}  departmentResponse
// @Failure      400   {object}  errorResponse
// @Router       /departements [post]
func (h *DepartmentHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req createDepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	d, err := h.service.Create(c.Request().Context(), claims, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, departmentResponse{ID: d.ID, Name: d.Name})
}

// AddMembers handles POST /departements/:department_id/users/add and returns
// the users that were actually added.
//
// @Summary      Add users to a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        department_id  path      int             true  "Department id"
// @Param        body           body      membersRequest  true  "User ids"
// @Success      200            {array}   memberResponse
// @Failure      400            {object}  errorResponse
// @Failure      404            {object}  errorResponse
// @Router       /departements/{department_id}/users/add [post]
func (h *DepartmentHandler) AddMembers(c echo.Context) error {
	return h.changeMembers(c, h.service.AddMembers)
}

// RemoveMembers handles POST /departements/:department_id/users/remove and
// returns the users that were actually removed.
//
// @Summary      Remove users from a department
// @Tags         departments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        department_id  path      int             true  "Department id"
// @Param        body           body      membersRequest  true  "User ids"
// @Success      200            {array}   memberResponse
// @Failure      400            {object}  errorResponse
// @Failure      404            {object}  errorResponse
// @Router       /departements/{department_id}/users/remove [post]
func (h *DepartmentHandler) RemoveMembers(c echo.Context) error {
	return h.changeMembers(c, h.service.RemoveMembers)
}

type membershipFunc = func(ctx context.Context, actor domain.SessionClaims, departmentID int64, userIDs []int64) ([]domain.MemberSummary, error)

func (h *DepartmentHandler) changeMembers(c echo.Context, apply membershipFunc) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	departmentID, err := pathID(c, "department_id")
	if err != nil {
		return err
	}
	var req membersRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	members, err := apply(c.Request().Context(), claims, departmentID, req.UserIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponses(members))
}

// ListMembers handles GET /departements/:department_id/users.
//
// @Summary      List department members
// @Tags         departments
// @Produce      json
// @Security     BearerAuth
// @Param        department_id  path      int  true  "Department id"
// @Success      200            {array}   map[string]interface{}
// @Failure      400            {object}  errorResponse
// @Failure      404            {object}  errorResponse
// @Router       /departements/{department_id}/users [get]
func (h *DepartmentHandler) ListMembers(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	departmentID, err := pathID(c, "department_id")
	if err != nil {
		return err
	}

	views, err := h.service.ListMembers(c.Request().Context(), claims, departmentID)
	if err != nil {
		return err
	}
	out := make([]profileResponse, len(views))
	for i := range views {
		out[i] = toProfileResponse(&views[i])
	}
	return c.JSON(http.StatusOK, out)
}
