package router

import (
	"github.com/labstack/echo/v4"

	"campusx/internal/adapter/api/handler"
	"campusx/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler, authMiddleware *middleware.AuthMiddleware) {
	listings := e.Group("/v1/listings")

	// Browsing is public.
	listings.GET("", listingHandler.ListListings)
	listings.GET("/:id", listingHandler.GetListing)

	listings.POST("", listingHandler.CreateListing, authMiddleware.Authenticate)
	listings.PATCH("/:id", listingHandler.UpdateListing, authMiddleware.Authenticate)
	listings.DELETE("/:id", listingHandler.DeleteListing, authMiddleware.Authenticate)
}
