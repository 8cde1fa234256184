package rest

import (
	"fmt"
	"net/http"
	"time"

	"userbase/internal/service"
	"userbase/pkg/logger"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Login(c echo.Context) error {
	var req service.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: malformed body", service.ErrInvalidRequest)
	}

	out, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(out.Token, h.cfg.CookieTTL))
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cfg.CookieName); err == nil {
		if who, err := h.auth.Authenticate(cookie.Value); err == nil {
			logger.FromContext(c.Request().Context()).Info("logout", "user_id", who.ID)
		}
	}
	c.SetCookie(h.sessionCookie("", -1))
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) sessionCookie(value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
	} else {
		cookie.MaxAge = int(ttl.Seconds())
	}
	return cookie
}
