package blog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Ashankavinda277/My-personal-website-Backend/internal/apperror"
	"github.com/Ashankavinda277/My-personal-website-Backend/internal/auth"
)

type createTypeRequest struct {
	Name  string `json:"name" form:"name"`
	Image string `json:"image" form:"image"`
}

type renameTypeRequest struct {
	NewType string `json:"new_type" form:"new_type"`
}

func (h *Handler) ListTypes(c echo.Context) error {
	types, err := h.mgr.ListTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

func (h *Handler) CreateType(c echo.Context) error {
	caller := auth.CurrentUser(c)
	if caller == nil {
		return apperror.Unauthenticated()
	}
	var req createTypeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("invalid request")
	}
	t, err := h.mgr.CreateType(c.Request().Context(), caller.Username, req.Name, req.Image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

// RenameType handles PUT /blogs/types/:name where :name is the current name.
func (h *Handler) RenameType(c echo.Context) error {
	var req renameTypeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.Validation("invalid request")
	}
	n, err := h.mgr.RenameType(c.Request().Context(), c.Param("name"), req.NewType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "renamed", "modified_count": n})
}

// DeleteType handles DELETE /blogs/types/:name where :name is an id or a name.
func (h *Handler) DeleteType(c echo.Context) error {
	if err := h.mgr.DeleteType(c.Request().Context(), c.Param("name")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
