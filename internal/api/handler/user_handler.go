package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/protorh/protorh-api/internal/core/ports"
)

// UserHandler serves profile reads and updates.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Get handles GET /user/:user_id. Admins see every field, other callers a
// restricted view.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int  true  "User id"
// @Success      200      {object}  map[string]interface{}
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /user/{user_id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	view, err := h.service.GetProfile(c.Request().Context(), claims, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProfileResponse(view))
}

// Update handles POST /user/update.
//
// @Summary      Update a user profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /user/update [post]
func (h *UserHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := toUpdateInput(req)
	if err != nil {
		return err
	}

	if _, err := h.service.UpdateProfile(c.Request().Context(), claims, in); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User updated with success"})
}
