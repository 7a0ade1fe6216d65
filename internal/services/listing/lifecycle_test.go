package listing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableturn/tableturn-api/internal/models"
)

func newTestListing(t *testing.T, provider uuid.UUID) *models.Listing {
	t.Helper()

	l, err := NewListing(NewListingInput{
		Title:       "Овощное рагу",
		Description: "Домашнее рагу, осталось после ужина",
		Type:        models.CategoryPrepared,
		Quantity:    "2 порции",
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}, provider, "Анна", models.Location{Lat: 30.3564, Lng: 76.3647, Address: "Thapar University"}, time.Now())

	require.NoError(t, err)
	return l
}

func TestNewListingDefaults(t *testing.T) {
	provider := uuid.New()
	l := newTestListing(t, provider)

	assert.Equal(t, models.StatusAvailable, l.Status)
	assert.Equal(t, "Free", l.Price)
	assert.Equal(t, 5.0, l.Rating)
	assert.Equal(t, 0, l.ReviewCount)
	assert.Equal(t, provider, l.ProviderID)
	assert.Equal(t, "Анна", l.Provider)
	assert.Nil(t, l.ClaimedBy)
}

func TestNewListingValidation(t *testing.T) {
	expires := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		input   NewListingInput
		wantErr error
	}{
		{
			name:    "без названия",
			input:   NewListingInput{Description: "описание", Type: models.CategoryProduce, ExpiresAt: expires},
			wantErr: ErrMissingFields,
		},
		{
			name:    "без описания",
			input:   NewListingInput{Title: "название", Type: models.CategoryProduce, ExpiresAt: expires},
			wantErr: ErrMissingFields,
		},
		{
			name:    "без срока годности",
			input:   NewListingInput{Title: "название", Description: "описание", Type: models.CategoryProduce},
			wantErr: ErrMissingFields,
		},
		{
			name:    "неизвестная категория",
			input:   NewListingInput{Title: "название", Description: "описание", Type: "frozen", ExpiresAt: expires},
			wantErr: ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewListing(tt.input, uuid.New(), "Анна", models.Location{}, time.Now())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClaim(t *testing.T) {
	l := newTestListing(t, uuid.New())
	claimant := uuid.New()

	require.NoError(t, Claim(l, claimant))
	assert.Equal(t, models.StatusClaimed, l.Status)
	require.NotNil(t, l.ClaimedBy)
	assert.Equal(t, claimant, *l.ClaimedBy)

	// Повторный клейм уже забронированного объявления запрещен
	assert.ErrorIs(t, Claim(l, uuid.New()), ErrNotAvailable)
	assert.Equal(t, claimant, *l.ClaimedBy)
}

func TestRelist(t *testing.T) {
	provider := uuid.New()
	l := newTestListing(t, provider)

	require.NoError(t, Claim(l, uuid.New()))

	// Не владелец не может вернуть объявление
	assert.ErrorIs(t, Relist(l, uuid.New()), ErrNotOwner)
	assert.Equal(t, models.StatusClaimed, l.Status)

	// Владелец возвращает объявление, claimant сбрасывается
	require.NoError(t, Relist(l, provider))
	assert.Equal(t, models.StatusAvailable, l.Status)
	assert.Nil(t, l.ClaimedBy)

	// Relist доступного объявления — no-op без ошибки
	require.NoError(t, Relist(l, provider))
	assert.Equal(t, models.StatusAvailable, l.Status)
}

func TestCheckOwner(t *testing.T) {
	provider := uuid.New()
	l := newTestListing(t, provider)

	assert.NoError(t, CheckOwner(l, provider))
	assert.ErrorIs(t, CheckOwner(l, uuid.New()), ErrNotOwner)
}

func TestValidateReviewRating(t *testing.T) {
	for rating := 1; rating <= 5; rating++ {
		assert.NoError(t, ValidateReviewRating(rating))
	}

	assert.ErrorIs(t, ValidateReviewRating(0), ErrInvalidRating)
	assert.ErrorIs(t, ValidateReviewRating(6), ErrInvalidRating)
	assert.ErrorIs(t, ValidateReviewRating(-1), ErrInvalidRating)
}

func TestApplyReview(t *testing.T) {
	l := newTestListing(t, uuid.New())

	first := models.Review{ID: uuid.New(), Rating: 5, Text: "Отлично", Date: time.Now()}
	second := models.Review{ID: uuid.New(), Rating: 4, Text: "Хорошо", Date: time.Now()}
	third := models.Review{ID: uuid.New(), Rating: 3, Date: time.Now()}

	require.NoError(t, ApplyReview(l, first))
	assert.Equal(t, 5.0, l.Rating)
	assert.Equal(t, 1, l.ReviewCount)

	require.NoError(t, ApplyReview(l, second))
	assert.Equal(t, 4.5, l.Rating)
	assert.Equal(t, 2, l.ReviewCount)

	require.NoError(t, ApplyReview(l, third))
	assert.Equal(t, 4.0, l.Rating)
	assert.Equal(t, 3, l.ReviewCount)

	// Новые отзывы добавляются в начало списка
	require.Len(t, l.Reviews, 3)
	assert.Equal(t, third.ID, l.Reviews[0].ID)
	assert.Equal(t, first.ID, l.Reviews[2].ID)

	// Невалидная оценка не меняет агрегаты
	assert.ErrorIs(t, ApplyReview(l, models.Review{Rating: 0}), ErrInvalidRating)
	assert.Equal(t, 4.0, l.Rating)
	assert.Equal(t, 3, l.ReviewCount)
}

func TestApplyReviewDoesNotChangeStatus(t *testing.T) {
	l := newTestListing(t, uuid.New())
	require.NoError(t, Claim(l, uuid.New()))

	require.NoError(t, ApplyReview(l, models.Review{ID: uuid.New(), Rating: 4, Date: time.Now()}))
	assert.Equal(t, models.StatusClaimed, l.Status)
}

func TestExpired(t *testing.T) {
	now := time.Now()
	l := newTestListing(t, uuid.New())

	l.ExpiresAt = now.Add(time.Minute)
	assert.False(t, Expired(l, now))

	l.ExpiresAt = now.Add(-time.Minute)
	assert.True(t, Expired(l, now))

	// Точное совпадение момента истечения считается истекшим
	l.ExpiresAt = now
	assert.True(t, Expired(l, now))
}
