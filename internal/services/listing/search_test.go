package listing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tableturn/tableturn-api/internal/geo"
	"github.com/tableturn/tableturn-api/internal/models"
)

// Тестовые точки: кампус Thapar и Leela Bhawan в Патиале, Чандигарх — далеко
var (
	thaparPoint     = geo.Point{Lat: 30.3564, Lng: 76.3647}
	leelaPoint      = geo.Point{Lat: 30.3400, Lng: 76.3800}
	chandigarhPoint = geo.Point{Lat: 30.7333, Lng: 76.7794}
)

func searchListing(title, category string, createdAt time.Time, at geo.Point) models.Listing {
	return models.Listing{
		ID:          uuid.New(),
		ProviderID:  uuid.New(),
		Title:       title,
		Description: "описание " + title,
		Type:        category,
		Location:    models.Location{Lat: at.Lat, Lng: at.Lng},
		ExpiresAt:   createdAt.Add(48 * time.Hour),
		Status:      models.StatusAvailable,
		CreatedAt:   createdAt,
	}
}

func TestSearchBasePredicate(t *testing.T) {
	now := time.Now()

	available := searchListing("Хлеб", models.CategoryBakery, now.Add(-time.Hour), thaparPoint)

	claimed := searchListing("Суп", models.CategoryPrepared, now.Add(-time.Hour), thaparPoint)
	claimed.Status = models.StatusClaimed

	expired := searchListing("Салат", models.CategoryPrepared, now.Add(-time.Hour), thaparPoint)
	expired.ExpiresAt = now.Add(-time.Minute)

	result := Search([]models.Listing{available, claimed, expired}, SearchFilter{}, now)

	require.Len(t, result, 1)
	assert.Equal(t, available.ID, result[0].ID)
}

func TestSearchCategoryAndOrder(t *testing.T) {
	now := time.Now()

	oldest := searchListing("Багет", models.CategoryBakery, now.Add(-3*time.Hour), thaparPoint)
	middle := searchListing("Круассаны", models.CategoryBakery, now.Add(-2*time.Hour), thaparPoint)
	newest := searchListing("Булочки", models.CategoryBakery, now.Add(-time.Hour), thaparPoint)
	other := searchListing("Морковь", models.CategoryProduce, now.Add(-30*time.Minute), thaparPoint)

	result := Search([]models.Listing{oldest, newest, other, middle}, SearchFilter{Type: models.CategoryBakery}, now)

	// Только выпечка, новые первыми
	require.Len(t, result, 3)
	assert.Equal(t, newest.ID, result[0].ID)
	assert.Equal(t, middle.ID, result[1].ID)
	assert.Equal(t, oldest.ID, result[2].ID)
}

func TestSearchCategoryAll(t *testing.T) {
	now := time.Now()

	bread := searchListing("Хлеб", models.CategoryBakery, now.Add(-time.Hour), thaparPoint)
	carrot := searchListing("Морковь", models.CategoryProduce, now.Add(-2*time.Hour), thaparPoint)

	for _, category := range []string{"", "all"} {
		result := Search([]models.Listing{bread, carrot}, SearchFilter{Type: category}, now)
		assert.Len(t, result, 2)
	}
}

func TestSearchText(t *testing.T) {
	now := time.Now()

	bread := searchListing("Свежий ХЛЕБ", models.CategoryBakery, now.Add(-time.Hour), thaparPoint)
	soup := searchListing("Суп", models.CategoryPrepared, now.Add(-time.Hour), thaparPoint)
	soup.Description = "Суп с хлебными гренками"
	carrot := searchListing("Морковь", models.CategoryProduce, now.Add(-time.Hour), thaparPoint)

	// Подстрока ищется в названии и описании без учета регистра
	result := Search([]models.Listing{bread, soup, carrot}, SearchFilter{Search: "хлеб"}, now)
	assert.Len(t, result, 2)

	result = Search([]models.Listing{bread, soup, carrot}, SearchFilter{Search: "пицца"}, now)
	assert.Empty(t, result)
}

func TestSearchRadius(t *testing.T) {
	now := time.Now()

	near := searchListing("Рядом", models.CategoryPrepared, now.Add(-2*time.Hour), leelaPoint)
	far := searchListing("Далеко", models.CategoryPrepared, now.Add(-time.Hour), chandigarhPoint)

	// Радиус по умолчанию 20 км: Чандигарх отсекается
	result := Search([]models.Listing{near, far}, SearchFilter{Origin: &thaparPoint}, now)
	require.Len(t, result, 1)
	assert.Equal(t, near.ID, result[0].ID)

	// Большой радиус возвращает оба
	result = Search([]models.Listing{near, far}, SearchFilter{Origin: &thaparPoint, RadiusKm: 100}, now)
	assert.Len(t, result, 2)
}

func TestSearchRadiusPreservesOrder(t *testing.T) {
	now := time.Now()

	// Старое объявление ближе, новое дальше, оба в радиусе:
	// порядок остается "новые первыми", а не "ближайшие первыми"
	nearOld := searchListing("Старое рядом", models.CategoryPrepared, now.Add(-3*time.Hour), thaparPoint)
	farNew := searchListing("Новое дальше", models.CategoryPrepared, now.Add(-time.Hour), leelaPoint)

	result := Search([]models.Listing{nearOld, farNew}, SearchFilter{Origin: &thaparPoint, RadiusKm: 10}, now)

	require.Len(t, result, 2)
	assert.Equal(t, farNew.ID, result[0].ID)
	assert.Equal(t, nearOld.ID, result[1].ID)
}

func TestSearchNoMutationOfInput(t *testing.T) {
	now := time.Now()

	listings := []models.Listing{
		searchListing("А", models.CategoryPrepared, now.Add(-time.Hour), thaparPoint),
		searchListing("Б", models.CategoryPrepared, now.Add(-2*time.Hour), thaparPoint),
	}

	first := listings[0].ID
	Search(listings, SearchFilter{Origin: &thaparPoint}, now)
	assert.Equal(t, first, listings[0].ID)
}
