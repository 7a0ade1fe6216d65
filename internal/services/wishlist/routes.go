package wishlist

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tableturn/tableturn-api/internal/middleware"
)

// SetupRoutes настраивает маршруты списка желаний
func (s *WishlistService) SetupRoutes(app *fiber.App) {
	// Группа для API списка желаний, все маршруты требуют авторизации
	api := app.Group("/api/wishlist")
	api.Use(middleware.AuthMiddleware(s.jwtService))

	api.Get("/", s.GetWishlist)
	api.Post("/:listingId", s.AddToWishlist)
	api.Delete("/:listingId", s.RemoveFromWishlist)
}
