// Package geo вычисляет расстояния между координатами по формуле гаверсинуса.
package geo

import "math"

// earthRadiusKm — радиус Земли в километрах
const earthRadiusKm = 6371

// Point представляет пару координат
type Point struct {
	Lat float64
	Lng float64
}

// DistanceKm возвращает расстояние по дуге большого круга между двумя точками
// в километрах. Координаты должны быть валидными числами, проверка на стороне
// вызывающего кода.
func DistanceKm(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// WithinRadius сообщает, находится ли точка b в радиусе radiusKm от точки a.
// Граница включительная: расстояние, равное радиусу, проходит проверку.
func WithinRadius(a, b Point, radiusKm float64) bool {
	return DistanceKm(a, b) <= radiusKm
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
