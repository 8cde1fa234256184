package rest

import (
	"fmt"
	"log/slog"
	"strings"

	"userbase/internal/service"
	"userbase/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const authUserKey = "auth_user"

// WithLogger puts l into every request context so services log through it.
func WithLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithLogger(req.Context(), l)))
			return next(c)
		}
	}
}

func RequestLogger(l *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogURI:      true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error == nil {
				l.LogAttrs(c.Request().Context(), slog.LevelInfo, "REQUEST", attrs...)
				return nil
			}
			attrs = append(attrs, slog.String("err", v.Error.Error()))
			l.LogAttrs(c.Request().Context(), slog.LevelError, "REQUEST_ERROR", attrs...)
			return nil
		},
	})
}

// RequireAuth accepts a bearer token or the session cookie.
func (h *Handler) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if raw == "" {
			if cookie, err := c.Cookie(h.cfg.CookieName); err == nil {
				raw = cookie.Value
			}
		}

		who, err := h.auth.Authenticate(raw)
		if err != nil {
			return fmt.Errorf("%w: login required", service.ErrUnauthorized)
		}
		c.Set(authUserKey, who)
		return next(c)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func authUser(c echo.Context) (service.AuthUser, bool) {
	u, ok := c.Get(authUserKey).(service.AuthUser)
	return u, ok
}
