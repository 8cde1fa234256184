package rest

import "github.com/labstack/echo/v4"

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)
	auth.GET("/logout", h.Logout)

	users := v1.Group("/user")
	users.POST("", h.CreateUser)
	users.GET("", h.GetUsers, h.RequireAuth)
	users.GET("/:id", h.GetUser, h.RequireAuth)
	users.PUT("/:id", h.UpdateUser, h.RequireAuth)
	users.DELETE("/:id", h.DeleteUser, h.RequireAuth)
}
