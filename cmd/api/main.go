package main

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/tableturn/tableturn-api/internal/config"
	"github.com/tableturn/tableturn-api/internal/db"
	"github.com/tableturn/tableturn-api/internal/middleware"
	"github.com/tableturn/tableturn-api/internal/services/auth"
	"github.com/tableturn/tableturn-api/internal/services/chat"
	"github.com/tableturn/tableturn-api/internal/services/cloudinary"
	"github.com/tableturn/tableturn-api/internal/services/listing"
	"github.com/tableturn/tableturn-api/internal/services/wishlist"
)

func main() {
	// Загружаем конфигурацию
	cfg := config.LoadConfig()

	// Инициализируем базу данных
	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ Ошибка при инициализации базы данных: %v", err)
	}
	defer db.CloseDB()

	// Создаём экземпляр Fiber
	app := fiber.New(fiber.Config{
		AppName:      "TableTurn API",
		ErrorHandler: errorHandler,
	})

	// Добавляем middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// Создаём сервисы
	authService := auth.NewAuthService(cfg)
	cloudinaryService := cloudinary.NewCloudinaryService(cfg)
	listingService := listing.NewListingService(cfg, cloudinaryService)
	chatService := chat.NewChatService(cfg)
	wishlistService := wishlist.NewWishlistService(cfg)

	// Middleware аутентификации для маршрутов вне групп сервисов
	authMiddleware := middleware.AuthMiddleware(authService.GetJWTService())

	// Регистрируем маршруты
	authService.SetupRoutes(app)
	listingService.SetupRoutes(app)
	chatService.SetupRoutes(app)
	wishlistService.SetupRoutes(app)
	cloudinaryService.SetupRoutes(app, authMiddleware)

	// Запускаем сервер
	log.Printf("✅ TableTurn API запущен на порту %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler обрабатывает ошибки Fiber
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	// Проверяем, является ли ошибка из Fiber
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Отправляем ошибку в JSON
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
