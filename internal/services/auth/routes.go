package auth

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tableturn/tableturn-api/internal/middleware"
)

// SetupRoutes настраивает маршруты аутентификации и профиля
func (s *AuthService) SetupRoutes(app *fiber.App) {
	authMiddleware := middleware.AuthMiddleware(s.jwtService)

	// Публичные маршруты
	app.Post("/api/auth/signup", s.Signup)
	app.Post("/api/auth/login", s.Login)

	// Профиль текущего пользователя
	app.Get("/api/users/me", s.GetMe, authMiddleware)
	app.Put("/api/users/location", s.UpdateLocation, authMiddleware)
}
