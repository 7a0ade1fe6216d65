package listing

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tableturn/tableturn-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API объявлений
func (s *ListingService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/listings")
	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	// Маршруты /user/* регистрируются до /:id, иначе их перехватит параметр
	api.Get("/user/mylistings", s.GetMyListings, authMiddleware)
	api.Get("/user/orders", s.GetOrders, authMiddleware)

	// Публичные маршруты обнаружения
	api.Get("/", s.GetPublicListings)
	api.Get("/:id", s.GetListing)

	// Маршруты, требующие авторизации
	api.Post("/", s.CreateListing, authMiddleware)
	api.Put("/:id", s.UpdateListing, authMiddleware)
	api.Delete("/:id", s.DeleteListing, authMiddleware)
	api.Post("/:id/claim", s.ClaimListing, authMiddleware)
	api.Post("/:id/relist", s.RelistListing, authMiddleware)
	api.Post("/:id/review", s.AddReview, authMiddleware)
}
