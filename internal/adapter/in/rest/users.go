package rest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"userbase/internal/service"
	"userbase/pkg/logger"
	"userbase/pkg/pagination"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *Handler) CreateUser(c echo.Context) error {
	var req service.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: malformed body", service.ErrInvalidRequest)
	}

	out, err := h.users.CreateUser(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *Handler) GetUser(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}

	out, err := h.users.GetUserByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) GetUsers(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}

	out, err := h.users.GetUsers(c.Request().Context(), req, h.baseURL(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}

	var req service.UpdateUserRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return fmt.Errorf("%w: malformed body", service.ErrInvalidRequest)
	}

	out, err := h.users.UpdateUser(c.Request().Context(), id, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := pathUserID(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.Request().Context(), id); err != nil {
		return err
	}
	if who, ok := authUser(c); ok {
		logger.FromContext(c.Request().Context()).Info("user removed", "user_id", id, "by", who.ID)
	}
	return c.NoContent(http.StatusNoContent)
}

func pathUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: user id must be a uuid", service.ErrInvalidRequest)
	}
	return id, nil
}

// pageRequest reads the optional page and per_page query parameters. Absent
// or empty parameters stay nil; non-integers are rejected.
func pageRequest(c echo.Context) (pagination.Request, error) {
	var (
		req pagination.Request
		err error
	)
	if req.Page, err = optionalInt(c, "page"); err != nil {
		return req, err
	}
	if req.PerPage, err = optionalInt(c, "per_page"); err != nil {
		return req, err
	}
	return req, nil
}

func optionalInt(c echo.Context, name string) (*int64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", service.ErrInvalidRequest, name)
	}
	return &v, nil
}

// baseURL is the collection URL without query, used as the links base.
func (h *Handler) baseURL(c echo.Context) string {
	path := c.Request().URL.Path
	if h.cfg.PublicBaseURL != "" {
		return strings.TrimRight(h.cfg.PublicBaseURL, "/") + path
	}
	return c.Scheme() + "://" + c.Request().Host + path
}
