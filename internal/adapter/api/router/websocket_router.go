package router

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/adapter/api/handler"
)

// SetupWebSocketRouter mounts the realtime endpoint. Authentication happens
// inside the handler because the token travels as a query parameter.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
