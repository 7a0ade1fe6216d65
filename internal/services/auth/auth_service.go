package auth

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tableturn/tableturn-api/internal/config"
	"github.com/tableturn/tableturn-api/internal/db"
	"github.com/tableturn/tableturn-api/internal/models"
	"github.com/tableturn/tableturn-api/internal/utils"
)

// Стартовая локация новых пользователей, пока они не указали свою
const (
	defaultLat     = 30.3398
	defaultLng     = 76.3869
	defaultAddress = "Sector 22, Patiala"
)

// AuthService представляет сервис аутентификации и профиля пользователя
type AuthService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewAuthService создает новый экземпляр AuthService
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetJWTService возвращает JWT-сервис для построения middleware в main
func (s *AuthService) GetJWTService() *utils.JWTService {
	return s.jwtService
}

// Signup регистрирует нового пользователя и сразу выдает токен
func (s *AuthService) Signup(c fiber.Ctx) error {
	var requestData struct {
		Name     string           `json:"name"`
		Email    string           `json:"email"`
		Password string           `json:"password"`
		Location *models.Location `json:"location"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if requestData.Name == "" || requestData.Email == "" || requestData.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Name, email and password are required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(requestData.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Ошибка хеширования пароля: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	location := models.Location{Lat: defaultLat, Lng: defaultLng, Address: defaultAddress}
	if requestData.Location != nil {
		location = *requestData.Location
	}

	user, err := db.CreateUser(requestData.Name, requestData.Email, string(hash),
		location.Lat, location.Lng, location.Address)

	if err != nil {
		if err == db.ErrEmailTaken {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already registered"})
		}
		log.Printf("Ошибка создания пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create user"})
	}

	token, err := s.jwtService.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	log.Printf("✅ Зарегистрирован пользователь %s", user.Email)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  toPublicUser(user),
	})
}

// Login проверяет учетные данные и выдает токен
func (s *AuthService) Login(c fiber.Ctx) error {
	var requestData struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := db.GetUserByEmail(requestData.Email)
	if err != nil {
		if err == db.ErrUserNotFound {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(requestData.Password)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := s.jwtService.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create token"})
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  toPublicUser(user),
	})
}

// GetMe возвращает профиль текущего пользователя
func (s *AuthService) GetMe(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	user, err := db.GetUserByID(ctx, userUUID)
	if err != nil {
		if err == db.ErrUserNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("Ошибка получения пользователя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	return c.JSON(toPublicUser(user))
}

// UpdateLocation сохраняет новую локацию текущего пользователя
func (s *AuthService) UpdateLocation(c fiber.Ctx) error {
	userUUID, err := uuid.Parse(c.Locals("userID").(string))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	var requestData struct {
		Lat     *float64 `json:"lat"`
		Lng     *float64 `json:"lng"`
		Address string   `json:"address"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if requestData.Lat == nil || requestData.Lng == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid coordinates"})
	}

	user, err := db.UpdateUserLocation(userUUID, *requestData.Lat, *requestData.Lng, requestData.Address)
	if err != nil {
		if err == db.ErrUserNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("Ошибка обновления локации: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update location"})
	}

	return c.JSON(toPublicUser(user))
}

// toPublicUser собирает публичное представление пользователя без хеша пароля
func toPublicUser(user *db.User) models.User {
	return models.User{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Rating:      user.Rating,
		ReviewCount: user.ReviewCount,
		Location: &models.Location{
			Lat:     user.Lat,
			Lng:     user.Lng,
			Address: user.Address,
		},
	}
}
