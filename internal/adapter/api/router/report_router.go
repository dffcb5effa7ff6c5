package router

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/adapter/api/handler"
	"campusx/internal/adapter/api/middleware"
)

func SetupReportRouter(e *echo.Echo, reportHandler *handler.ReportHandler, authMiddleware *middleware.AuthMiddleware) {
	reports := e.Group("/v1/reports")
	reports.Use(authMiddleware.Authenticate)

	reports.POST("", reportHandler.CreateReport)
}
