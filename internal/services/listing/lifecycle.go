package listing

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tableturn/tableturn-api/internal/models"
	"github.com/tableturn/tableturn-api/internal/rating"
)

// Ошибки жизненного цикла объявления. Обработчики транслируют их
// в HTTP-статусы: не найдено — 404, нет прав — 403, недопустимый
// переход — 400, невалидные данные — 400.
var (
	ErrListingNotFound = errors.New("объявление не найдено")
	ErrNotOwner        = errors.New("пользователь не является владельцем объявления")
	ErrNotAvailable    = errors.New("объявление недоступно для бронирования")
	ErrInvalidRating   = errors.New("оценка должна быть целым числом от 1 до 5")
	ErrMissingFields   = errors.New("не заполнены обязательные поля")
	ErrInvalidCategory = errors.New("недопустимая категория")
)

// NewListingInput содержит данные для создания объявления
type NewListingInput struct {
	Title       string
	Description string
	Type        string
	Quantity    string
	Price       string
	Image       string
	ExpiresAt   time.Time
	Dietary     []string
}

// ValidateNew проверяет обязательные поля нового объявления
func ValidateNew(in NewListingInput) error {
	if in.Title == "" || in.Description == "" || in.ExpiresAt.IsZero() {
		return ErrMissingFields
	}
	if !models.ValidCategory(in.Type) {
		return ErrInvalidCategory
	}
	return nil
}

// NewListing собирает объявление из входных данных, снимая снапшот имени и
// локации поставщика. Локация копируется, а не ссылается на профиль.
func NewListing(in NewListingInput, providerID uuid.UUID, providerName string, providerLoc models.Location, now time.Time) (*models.Listing, error) {
	if err := ValidateNew(in); err != nil {
		return nil, err
	}

	price := in.Price
	if price == "" {
		price = "Free"
	}

	return &models.Listing{
		ID:          uuid.New(),
		ProviderID:  providerID,
		Provider:    providerName,
		Title:       in.Title,
		Description: in.Description,
		Type:        in.Type,
		Quantity:    in.Quantity,
		Price:       price,
		Location:    providerLoc,
		Image:       in.Image,
		ExpiresAt:   in.ExpiresAt,
		Status:      models.StatusAvailable,
		Rating:      5.0,
		ReviewCount: 0,
		Dietary:     in.Dietary,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Claim переводит объявление из available в claimed и фиксирует claimant.
// Любой другой исходный статус — недопустимый переход, кем бы ни был вызывающий.
func Claim(l *models.Listing, claimant uuid.UUID) error {
	if l.Status != models.StatusAvailable {
		return ErrNotAvailable
	}

	l.Status = models.StatusClaimed
	l.ClaimedBy = &claimant
	return nil
}

// Relist возвращает объявление в available и сбрасывает claimedBy.
// Разрешено только владельцу. Повторный relist уже доступного объявления —
// осознанный no-op, как в исходном поведении системы.
func Relist(l *models.Listing, requestor uuid.UUID) error {
	if l.ProviderID != requestor {
		return ErrNotOwner
	}

	l.Status = models.StatusAvailable
	l.ClaimedBy = nil
	return nil
}

// CheckOwner проверяет право на изменение или удаление объявления
func CheckOwner(l *models.Listing, requestor uuid.UUID) error {
	if l.ProviderID != requestor {
		return ErrNotOwner
	}
	return nil
}

// ValidateReviewRating проверяет оценку отзыва
func ValidateReviewRating(r int) error {
	if r < 1 || r > 5 {
		return ErrInvalidRating
	}
	return nil
}

// ApplyReview добавляет отзыв в начало списка и пересчитывает агрегаты
// объявления. Статус объявления не меняется, отзывы неизменяемы.
func ApplyReview(l *models.Listing, review models.Review) error {
	if err := ValidateReviewRating(review.Rating); err != nil {
		return err
	}

	l.Reviews = append([]models.Review{review}, l.Reviews...)

	ratings := make([]int, 0, len(l.Reviews))
	for _, r := range l.Reviews {
		ratings = append(ratings, r.Rating)
	}

	if avg, count, ok := rating.RecomputeListing(ratings); ok {
		l.Rating = avg
		l.ReviewCount = count
	}

	return nil
}

// Expired сообщает, истекло ли объявление к моменту now. Статус expired —
// производное состояние на чтении, в хранилище оно не записывается.
func Expired(l *models.Listing, now time.Time) bool {
	return !l.ExpiresAt.After(now)
}
