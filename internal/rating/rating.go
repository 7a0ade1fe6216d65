// Package rating пересчитывает агрегированные рейтинги объявлений и поставщиков.
//
// Рейтинг объявления — округлённое до одного знака среднее оценок его отзывов.
// Рейтинг поставщика восстанавливается из рейтингов его объявлений как
// взвешенное среднее, где весом служит число отзывов каждого объявления.
// Сырые оценки на уровне поставщика не хранятся.
package rating

import "math"

// ListingSummary содержит агрегированные значения одного объявления
type ListingSummary struct {
	Rating      float64
	ReviewCount int
}

// RecomputeListing пересчитывает рейтинг объявления по списку оценок отзывов.
// Для пустого списка ok == false: существующие значения остаются без изменений.
func RecomputeListing(ratings []int) (avg float64, count int, ok bool) {
	count = len(ratings)
	if count == 0 {
		return 0, 0, false
	}

	total := 0
	for _, r := range ratings {
		total += r
	}

	return round1(float64(total) / float64(count)), count, true
}

// RecomputeProvider восстанавливает рейтинг поставщика из агрегатов всех его
// объявлений. Для поставщика без отзывов ok == false: рейтинг не меняется.
func RecomputeProvider(listings []ListingSummary) (avg float64, count int, ok bool) {
	var weighted float64
	for _, l := range listings {
		count += l.ReviewCount
		weighted += l.Rating * float64(l.ReviewCount)
	}

	if count == 0 {
		return 0, 0, false
	}

	return round1(weighted / float64(count)), count, true
}

// round1 округляет до одного знака после запятой
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
