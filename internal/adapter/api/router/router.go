package router

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/adapter/api/handler"
	"campusx/internal/adapter/api/middleware"
)

// Handlers bundles every handler the routers mount. All instances are built
// explicitly in main and passed down; nothing routes through package state.
type Handlers struct {
	Auth      *handler.AuthHandler
	Listing   *handler.ListingHandler
	Chat      *handler.ChatHandler
	Report    *handler.ReportHandler
	Admin     *handler.AdminHandler
	Upload    *handler.UploadHandler
	WebSocket *handler.WebSocketHandler
	Health    *handler.HealthHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupHealthRouter(e, h.Health)
	SetupAuthRouter(e, h.Auth, authMiddleware)
	SetupListingRouter(e, h.Listing, authMiddleware)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupReportRouter(e, h.Report, authMiddleware)
	SetupAdminRouter(e, h.Admin, authMiddleware, adminMiddleware)
	SetupUploadRouter(e, h.Upload, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
}
