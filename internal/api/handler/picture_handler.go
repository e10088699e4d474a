package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

const maxUploadBytes = 8 << 20

// PictureHandler serves profile picture upload and lookup.
type PictureHandler struct {
	service ports.PictureService
}

func NewPictureHandler(service ports.PictureService) *PictureHandler {
	return &PictureHandler{service: service}
}

// Upload handles POST /upload/picture/user/:user_id (multipart field "file").
//
// @Summary      Upload a profile picture
// @Tags         pictures
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int   true  "User id"
// @Param        file     formData  file  true  "gif, png, jpg or jpeg"
// @Success      200      {object}  pictureResponse
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /upload/picture/user/{user_id} [post]
func (h *PictureHandler) Upload(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return &domain.ValidationError{Field: "file", Reason: "file is required"}
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return err
	}
	if len(data) > maxUploadBytes {
		return &domain.ValidationError{Field: "file", Reason: "Picture too large"}
	}

	path, err := h.service.Upload(c.Request().Context(), claims, userID, fh.Filename, data)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pictureResponse{Path: path})
}

// Get handles GET /picture/user/:user_id. The default picture path is
// returned when none was uploaded.
//
// @Summary      Get a profile picture path
// @Tags         pictures
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      int  true  "User id"
// @Success      200      {object}  pictureResponse
// @Failure      404      {object}  errorResponse
// @Router       /picture/user/{user_id} [get]
func (h *PictureHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}

	path, err := h.service.Lookup(c.Request().Context(), claims, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pictureResponse{Path: path})
}
