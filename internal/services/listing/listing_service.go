package listing

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tableturn/tableturn-api/internal/config"
	"github.com/tableturn/tableturn-api/internal/db"
	"github.com/tableturn/tableturn-api/internal/geo"
	"github.com/tableturn/tableturn-api/internal/models"
	"github.com/tableturn/tableturn-api/internal/rating"
	"github.com/tableturn/tableturn-api/internal/services/chat"
	"github.com/tableturn/tableturn-api/internal/services/cloudinary"
	"github.com/tableturn/tableturn-api/internal/utils"
)

// listingRequest представляет тело запроса создания и обновления объявления
type listingRequest struct {
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Type          string    `json:"type"`
	Quantity      string    `json:"quantity"`
	Price         string    `json:"price"`
	Image         string    `json:"image"`
	ImagePublicID string    `json:"imagePublicId"`
	ExpiresAt     time.Time `json:"expiresAt"`
	Dietary       []string  `json:"dietary"`
}

// ListingService представляет сервис для работы с объявлениями
type ListingService struct {
	cfg           *config.Config
	jwtService    *utils.JWTService
	cloudinarySvc *cloudinary.CloudinaryService
}

// NewListingService создает новый экземпляр ListingService
func NewListingService(cfg *config.Config, cloudinarySvc *cloudinary.CloudinaryService) *ListingService {
	return &ListingService{
		cfg:           cfg,
		jwtService:    utils.NewJWTService(cfg.JWTSecret),
		cloudinarySvc: cloudinarySvc,
	}
}

// GetPublicListings возвращает доступные объявления с фильтрами обнаружения:
// категория, текстовый поиск и радиус от переданной точки
func (s *ListingService) GetPublicListings(c fiber.Ctx) error {
	filter := SearchFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
	}

	// Координаты и радиус: невалидные числа отклоняем до вызова geo
	latStr := c.Query("lat")
	lngStr := c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coordinates"})
		}
		filter.Origin = &geo.Point{Lat: lat, Lng: lng}

		if radiusStr := c.Query("radius"); radiusStr != "" {
			radius, err := strconv.ParseFloat(radiusStr, 64)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid radius"})
			}
			filter.RadiusKm = radius
		}
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Базовый предикат выполняется в SQL, остальные шаги фильтра — в Search
	candidates, err := fetchListings(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE status = 'available' AND expires_at > NOW()
	`)

	if err != nil {
		log.Printf("Ошибка запроса объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listings"})
	}

	listings := Search(candidates, filter, time.Now())

	// Подгружаем отзывы для каждого объявления
	for i := range listings {
		listings[i].Reviews, err = loadReviews(ctx, listings[i].ID)
		if err != nil {
			log.Printf("Ошибка запроса отзывов: %v", err)
			listings[i].Reviews = []models.Review{}
		}
	}

	return c.JSON(listings)
}

// GetListing возвращает детальную информацию об объявлении
func (s *ListingService) GetListing(c fiber.Ctx) error {
	listingUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listing, err := fetchListingByID(ctx, db.Pool, listingUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	listing.Reviews, err = loadReviews(ctx, listing.ID)
	if err != nil {
		log.Printf("Ошибка запроса отзывов: %v", err)
		listing.Reviews = []models.Review{}
	}

	return c.JSON(listing)
}

// CreateListing обрабатывает создание нового объявления. Имя и локация
// поставщика копируются на объявление в момент создания.
func (s *ListingService) CreateListing(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var requestData listingRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	provider, err := db.GetUserByID(ctx, userUUID)
	if err != nil {
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	listing, err := NewListing(NewListingInput{
		Title:       requestData.Title,
		Description: requestData.Description,
		Type:        requestData.Type,
		Quantity:    requestData.Quantity,
		Price:       requestData.Price,
		Image:       requestData.Image,
		ExpiresAt:   requestData.ExpiresAt,
		Dietary:     requestData.Dietary,
	}, provider.ID, provider.Name, models.Location{
		Lat:     provider.Lat,
		Lng:     provider.Lng,
		Address: provider.Address,
	}, time.Now())

	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	_, err = db.Pool.Exec(ctx, `
		INSERT INTO listings (id, provider_id, provider_name, title, description, category,
			quantity, price, lat, lng, address, image, image_public_id, expires_at, status,
			rating, review_count, dietary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`, listing.ID, listing.ProviderID, listing.Provider, listing.Title, listing.Description,
		listing.Type, listing.Quantity, listing.Price, listing.Location.Lat, listing.Location.Lng,
		listing.Location.Address, listing.Image, requestData.ImagePublicID, listing.ExpiresAt,
		listing.Status, listing.Rating, listing.ReviewCount, listing.Dietary,
		listing.CreatedAt, listing.UpdatedAt)

	if err != nil {
		log.Printf("Ошибка вставки объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save listing"})
	}

	listing.Reviews = []models.Review{}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// UpdateListing обновляет существующее объявление. Разрешено только владельцу.
func (s *ListingService) UpdateListing(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	var requestData listingRequest
	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ValidateNew(NewListingInput{
		Title:       requestData.Title,
		Description: requestData.Description,
		Type:        requestData.Type,
		ExpiresAt:   requestData.ExpiresAt,
	}); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listing, err := fetchListingByID(ctx, db.Pool, listingUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	if err := CheckOwner(listing, userUUID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	price := requestData.Price
	if price == "" {
		price = "Free"
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE listings
		SET title = $1, description = $2, category = $3, quantity = $4, price = $5,
			image = $6, expires_at = $7, dietary = $8, updated_at = NOW()
		WHERE id = $9
	`, requestData.Title, requestData.Description, requestData.Type, requestData.Quantity,
		price, requestData.Image, requestData.ExpiresAt, requestData.Dietary, listingUUID)

	if err != nil {
		log.Printf("Ошибка обновления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update listing"})
	}

	updated, err := fetchListingByID(ctx, db.Pool, listingUUID)
	if err != nil {
		log.Printf("Ошибка чтения обновленного объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	updated.Reviews, _ = loadReviews(ctx, updated.ID)
	return c.JSON(updated)
}

// DeleteListing удаляет объявление вместе с отзывами, чатами и записями
// списков желаний. Разрешено только владельцу.
func (s *ListingService) DeleteListing(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listing, err := fetchListingByID(ctx, db.Pool, listingUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	if err := CheckOwner(listing, userUUID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	var imagePublicID string
	err = db.Pool.QueryRow(ctx, `
		SELECT image_public_id FROM listings WHERE id = $1
	`, listingUUID).Scan(&imagePublicID)
	if err != nil {
		log.Printf("Ошибка чтения public_id изображения: %v", err)
	}

	// Начинаем транзакцию: объявление удаляется вместе с зависимыми строками
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	defer tx.Rollback(ctx)

	for _, query := range []string{
		`DELETE FROM messages WHERE chat_id IN (SELECT id FROM chats WHERE listing_id = $1)`,
		`DELETE FROM chats WHERE listing_id = $1`,
		`DELETE FROM wishlists WHERE listing_id = $1`,
		`DELETE FROM reviews WHERE listing_id = $1`,
		`DELETE FROM listings WHERE id = $1`,
	} {
		if _, err = tx.Exec(ctx, query, listingUUID); err != nil {
			log.Printf("Ошибка удаления объявления: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete listing"})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	// Чистим изображение в Cloudinary, ошибка не влияет на результат
	if err := s.cloudinarySvc.Destroy(ctx, imagePublicID); err != nil {
		log.Printf("Не удалось удалить изображение объявления %s: %v", listingUUID, err)
	}

	return c.JSON(fiber.Map{"message": "Listing deleted successfully"})
}

// ClaimListing бронирует доступное объявление за текущим пользователем и
// создает чат с владельцем. Недоступное объявление — ошибка перехода,
// кем бы ни был вызывающий.
func (s *ListingService) ClaimListing(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	defer tx.Rollback(ctx)

	// Блокируем строку: два одновременных клейма не должны пройти оба
	listing, err := fetchListingForUpdate(ctx, tx, listingUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	if err := Claim(listing, userUUID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Listing not available"})
	}

	_, err = tx.Exec(ctx, `
		UPDATE listings
		SET status = $1, claimed_by = $2, updated_at = NOW()
		WHERE id = $3
	`, listing.Status, listing.ClaimedBy, listingUUID)

	if err != nil {
		log.Printf("Ошибка обновления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to claim listing"})
	}

	chatID, err := chat.EnsureChatTx(ctx, tx, listingUUID, listing.ProviderID, userUUID, listing.Title)
	if err != nil {
		log.Printf("Ошибка создания чата: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create chat"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	listing.Reviews, _ = loadReviews(ctx, listing.ID)

	return c.JSON(fiber.Map{
		"listing": listing,
		"chatId":  chatID,
	})
}

// RelistListing возвращает объявление в статус available. Разрешено только
// владельцу; relist уже доступного объявления — no-op.
func (s *ListingService) RelistListing(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listing, err := fetchListingByID(ctx, db.Pool, listingUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	if err := Relist(listing, userUUID); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not authorized"})
	}

	_, err = db.Pool.Exec(ctx, `
		UPDATE listings
		SET status = $1, claimed_by = NULL, updated_at = NOW()
		WHERE id = $2
	`, listing.Status, listingUUID)

	if err != nil {
		log.Printf("Ошибка обновления объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to relist listing"})
	}

	listing.Reviews, _ = loadReviews(ctx, listing.ID)
	return c.JSON(listing)
}

// AddReview добавляет отзыв к объявлению и пересчитывает два уровня
// агрегатов: рейтинг объявления и рейтинг его поставщика по всем объявлениям
func (s *ListingService) AddReview(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	var requestData struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := ValidateReviewRating(requestData.Rating); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be an integer from 1 to 5"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	reviewer, err := db.GetUserByID(ctx, userUUID)
	if err != nil {
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	defer tx.Rollback(ctx)

	listing, err := fetchListingForUpdate(ctx, tx, listingUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
		}
		log.Printf("Ошибка получения объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
	}

	listing.Reviews, err = loadReviews(ctx, listing.ID)
	if err != nil {
		log.Printf("Ошибка запроса отзывов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load reviews"})
	}

	review := models.Review{
		ID:        uuid.New(),
		ListingID: listingUUID,
		UserID:    userUUID,
		User:      reviewer.Name,
		Rating:    requestData.Rating,
		Text:      requestData.Text,
		Date:      time.Now(),
	}

	if err := ApplyReview(listing, review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Rating must be an integer from 1 to 5"})
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, listing_id, reviewer_id, reviewer_name, rating, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, review.ID, review.ListingID, review.UserID, review.User, review.Rating, review.Text, review.Date)

	if err != nil {
		log.Printf("Ошибка вставки отзыва: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save review"})
	}

	_, err = tx.Exec(ctx, `
		UPDATE listings
		SET rating = $1, review_count = $2, updated_at = NOW()
		WHERE id = $3
	`, listing.Rating, listing.ReviewCount, listingUUID)

	if err != nil {
		log.Printf("Ошибка обновления рейтинга объявления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update listing"})
	}

	// Пересчитываем рейтинг поставщика по свежему чтению всех его объявлений
	summaries, err := providerSummaries(ctx, tx, listing.ProviderID)
	if err != nil {
		log.Printf("Ошибка запроса объявлений поставщика: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update provider rating"})
	}

	if avg, count, ok := rating.RecomputeProvider(summaries); ok {
		if err := db.UpdateUserRating(ctx, tx, listing.ProviderID, avg, count); err != nil {
			log.Printf("Ошибка обновления рейтинга поставщика: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update provider rating"})
		}
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(listing)
}

// GetMyListings возвращает объявления текущего пользователя, новые первыми
func (s *ListingService) GetMyListings(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listings, err := fetchListings(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listings"})
	}

	for i := range listings {
		listings[i].Reviews, _ = loadReviews(ctx, listings[i].ID)
	}

	return c.JSON(listings)
}

// GetOrders возвращает объявления, забронированные текущим пользователем
func (s *ListingService) GetOrders(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	listings, err := fetchListings(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE claimed_by = $1
		ORDER BY created_at DESC
	`, userUUID)

	if err != nil {
		log.Printf("Ошибка запроса объявлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listings"})
	}

	for i := range listings {
		listings[i].Reviews, _ = loadReviews(ctx, listings[i].ID)
	}

	return c.JSON(listings)
}

// listingColumns — общий список столбцов для сканирования объявления
const listingColumns = `id, provider_id, provider_name, title, description, category,
	quantity, price, lat, lng, address, image, expires_at, status, claimed_by,
	rating, review_count, dietary, created_at, updated_at`

// rowScanner объединяет pgx.Row и строки результата Query
type rowScanner interface {
	Scan(dest ...any) error
}

// scanListing читает строку таблицы listings в модель
func scanListing(row rowScanner) (*models.Listing, error) {
	var l models.Listing

	err := row.Scan(
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
		return nil, err
	}

	if l.Dietary == nil {
		l.Dietary = []string{}
	}

	return &l, nil
}

// queryRower покрывает пул и транзакцию для одиночных запросов
type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// fetchListingByID возвращает объявление по идентификатору
func fetchListingByID(ctx context.Context, q queryRower, id uuid.UUID) (*models.Listing, error) {
	return scanListing(q.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE id = $1
	`, id))
}

// fetchListingForUpdate возвращает объявление с блокировкой строки
func fetchListingForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Listing, error) {
	return scanListing(tx.QueryRow(ctx, `
		SELECT `+listingColumns+`
		FROM listings
		WHERE id = $1
		FOR UPDATE
	`, id))
}

// fetchListings выполняет запрос и сканирует все строки в список объявлений
func fetchListings(ctx context.Context, query string, args ...any) ([]models.Listing, error) {
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	listings := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		listings = append(listings, *l)
	}

	return listings, rows.Err()
}

// loadReviews возвращает отзывы объявления, новые первыми
func loadReviews(ctx context.Context, listingID uuid.UUID) ([]models.Review, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT id, listing_id, reviewer_id, reviewer_name, rating, text, created_at
		FROM reviews
		WHERE listing_id = $1
		ORDER BY created_at DESC
	`, listingID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ListingID, &r.UserID, &r.User, &r.Rating, &r.Text, &r.Date); err != nil {
			log.Printf("Ошибка сканирования отзыва: %v", err)
			continue
		}
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}

// providerSummaries возвращает агрегаты всех объявлений поставщика
func providerSummaries(ctx context.Context, tx pgx.Tx, providerID uuid.UUID) ([]rating.ListingSummary, error) {
	rows, err := tx.Query(ctx, `
		SELECT rating, review_count
		FROM listings
		WHERE provider_id = $1
	`, providerID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []rating.ListingSummary
	for rows.Next() {
		var s rating.ListingSummary
		if err := rows.Scan(&s.Rating, &s.ReviewCount); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}
