package router

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/adapter/api/handler"
	"campusx/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.CreateChat)
	chats.GET("", chatHandler.GetUserChats)
	chats.GET("/:id", chatHandler.GetChatByID)

	chats.GET("/:id/messages", chatHandler.GetChatMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)

	// Negotiation: one endpoint, the action field selects the operation.
	chats.POST("/:id/offer", chatHandler.OfferAction)
	chats.GET("/:id/offers", chatHandler.GetChatOffers)
}
