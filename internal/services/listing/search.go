package listing

import (
	"sort"
	"strings"
	"time"

	"github.com/tableturn/tableturn-api/internal/geo"
	"github.com/tableturn/tableturn-api/internal/models"
)

// DefaultRadiusKm — радиус поиска по умолчанию, когда клиент передал
// координаты без радиуса
const DefaultRadiusKm = 20

// SearchFilter описывает параметры публичного поиска объявлений
type SearchFilter struct {
	Type     string     // категория; пустая строка или "all" — без фильтра
	Search   string     // подстрока в названии или описании, без учета регистра
	Origin   *geo.Point // точка отсчета для фильтра по радиусу
	RadiusKm float64    // радиус в км; 0 при заданном Origin означает DefaultRadiusKm
}

// Search применяет фильтр обнаружения к набору объявлений.
//
// Порядок шагов фиксирован: базовый предикат (available и не истекло),
// категория, текстовый поиск, сортировка по дате создания (новые первыми)
// и только затем фильтр по радиусу. Радиус применяется после сортировки
// намеренно: итоговый порядок — "новые первыми среди попавших в радиус",
// а не "ближайшие первыми".
func Search(listings []models.Listing, f SearchFilter, now time.Time) []models.Listing {
	result := make([]models.Listing, 0, len(listings))

	needle := strings.ToLower(f.Search)

	for _, l := range listings {
		if l.Status != models.StatusAvailable || Expired(&l, now) {
			continue
		}

		if f.Type != "" && f.Type != "all" && l.Type != f.Type {
			continue
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Title), needle) &&
			!strings.Contains(strings.ToLower(l.Description), needle) {
			continue
		}

		result = append(result, l)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if f.Origin != nil {
		radius := f.RadiusKm
		if radius == 0 {
			radius = DefaultRadiusKm
		}

		filtered := result[:0]
		for _, l := range result {
			point := geo.Point{Lat: l.Location.Lat, Lng: l.Location.Lng}
			if geo.WithinRadius(*f.Origin, point, radius) {
				filtered = append(filtered, l)
			}
		}
		result = filtered
	}

	return result
}
