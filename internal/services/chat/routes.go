package chat

import (
	"github.com/gofiber/fiber/v3"

	"github.com/tableturn/tableturn-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API чатов
func (s *ChatService) SetupRoutes(app *fiber.App) {
	// Группа для API чатов, все маршруты требуют авторизации
	api := app.Group("/api/chats")
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для получения чата объявления
	api.Get("/:listingId", s.GetChat)

	// Маршрут для отправки сообщения (чат создается лениво)
	api.Post("/:listingId/message", s.SendMessage)
}
