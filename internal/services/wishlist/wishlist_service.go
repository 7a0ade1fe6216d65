package wishlist

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/tableturn/tableturn-api/internal/config"
	"github.com/tableturn/tableturn-api/internal/db"
	"github.com/tableturn/tableturn-api/internal/models"
	"github.com/tableturn/tableturn-api/internal/utils"
)

// WishlistService представляет сервис списка желаний пользователя
type WishlistService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewWishlistService создает новый экземпляр WishlistService
func NewWishlistService(cfg *config.Config) *WishlistService {
	return &WishlistService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetWishlist возвращает записи списка желаний текущего пользователя
// вместе с данными объявлений, новые записи первыми
func (s *WishlistService) GetWishlist(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `
		SELECT w.id, w.user_id, w.listing_id, w.created_at,
			l.id, l.provider_id, l.provider_name, l.title, l.description, l.category,
			l.quantity, l.price, l.lat, l.lng, l.address, l.image, l.expires_at,
			l.status, l.claimed_by, l.rating, l.review_count, l.dietary,
			l.created_at, l.updated_at
		FROM wishlists w
		JOIN listings l ON l.id = w.listing_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса списка желаний: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load wishlist"})
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		var l models.Listing

		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.ListingID,
			&item.CreatedAt,
			&l.ID,
			&l.ProviderID,
			&l.Provider,
			&l.Title,
			&l.Description,
			&l.Type,
			&l.Quantity,
			&l.Price,
			&l.Location.Lat,
			&l.Location.Lng,
			&l.Location.Address,
			&l.Image,
			&l.ExpiresAt,
			&l.Status,
			&l.ClaimedBy,
			&l.Rating,
			&l.ReviewCount,
			&l.Dietary,
			&l.CreatedAt,
			&l.UpdatedAt,
		)

		if err != nil {
			log.Printf("Ошибка сканирования записи списка желаний: %v", err)
			continue
		}

		if l.Dietary == nil {
			l.Dietary = []string{}
		}
		l.Reviews = []models.Review{}

		item.Listing = &l
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Printf("Ошибка чтения списка желаний: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load wishlist"})
	}

	return c.JSON(items)
}

// AddToWishlist добавляет объявление в список желаний. Повторное добавление
// того же объявления — ошибка, запись остается одна.
func (s *WishlistService) AddToWishlist(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Объявление должно существовать
	var exists bool
	err = db.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM listings WHERE id = $1)
	`, listingUUID).Scan(&exists)

	if err != nil {
		log.Printf("Ошибка проверки объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
	}

	// Дубликаты гасим на уникальном индексе (user_id, listing_id)
	tag, err := db.Pool.Exec(ctx, `
		INSERT INTO wishlists (id, user_id, listing_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`, uuid.New(), userUUID, listingUUID)

	if err != nil {
		log.Printf("Ошибка добавления в список желаний: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update wishlist"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Already in wishlist"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Added to wishlist"})
}

// RemoveFromWishlist убирает объявление из списка желаний
func (s *WishlistService) RemoveFromWishlist(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tag, err := db.Pool.Exec(ctx, `
		DELETE FROM wishlists
		WHERE user_id = $1 AND listing_id = $2
	`, userUUID, listingUUID)

	if err != nil {
		log.Printf("Ошибка удаления из списка желаний: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update wishlist"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not in wishlist"})
	}

	return c.JSON(fiber.Map{"message": "Removed from wishlist"})
}
