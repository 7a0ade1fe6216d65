package cloudinary

import (
	"github.com/gofiber/fiber/v3"
)

// SetupRoutes настраивает маршруты для загрузки изображений
func (s *CloudinaryService) SetupRoutes(app *fiber.App, authMiddleware fiber.Handler) {
	// Маршрут для получения подписанных параметров загрузки
	app.Get("/api/upload/params", s.GenerateUploadParams, authMiddleware)
}
