package router

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/adapter/api/handler"
	"campusx/internal/adapter/api/middleware"
)

func SetupAdminRouter(e *echo.Echo, adminHandler *handler.AdminHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/reports", adminHandler.ListReports)
	admin.POST("/reports/:id", adminHandler.HandleReport)
}
