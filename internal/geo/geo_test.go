package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	thaparUniversity = Point{Lat: 30.3564, Lng: 76.3647}
	leelaBhawan      = Point{Lat: 30.3400, Lng: 76.3800}
	urbanEstate      = Point{Lat: 30.3250, Lng: 76.4000}
)

func TestDistanceKmSymmetric(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
	}{
		{"городские точки", thaparUniversity, leelaBhawan},
		{"дальние точки", Point{Lat: 55.7558, Lng: 37.6173}, Point{Lat: 30.3398, Lng: 76.3869}},
		{"через экватор", Point{Lat: -10, Lng: 20}, Point{Lat: 10, Lng: -20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, DistanceKm(tt.a, tt.b), DistanceKm(tt.b, tt.a), 1e-9)
		})
	}
}

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	assert.Zero(t, DistanceKm(thaparUniversity, thaparUniversity))
	assert.Zero(t, DistanceKm(Point{}, Point{}))
}

func TestDistanceKmKnownPair(t *testing.T) {
	// Thapar University — Leela Bhawan: около 2.5 км
	d := DistanceKm(thaparUniversity, leelaBhawan)
	assert.InDelta(t, 2.5, d, 0.3)
}

func TestWithinRadiusInclusiveBoundary(t *testing.T) {
	d := DistanceKm(thaparUniversity, urbanEstate)

	assert.True(t, WithinRadius(thaparUniversity, urbanEstate, d))
	assert.True(t, WithinRadius(thaparUniversity, urbanEstate, d+0.01))
	assert.False(t, WithinRadius(thaparUniversity, urbanEstate, d-0.01))
}

func TestWithinRadiusDefaultSearchRadius(t *testing.T) {
	// Все пресетные точки города попадают в радиус поиска по умолчанию (20 км)
	assert.True(t, WithinRadius(thaparUniversity, leelaBhawan, 20))
	assert.True(t, WithinRadius(thaparUniversity, urbanEstate, 20))

	// Другой город — не попадает
	chandigarh := Point{Lat: 30.7333, Lng: 76.7794}
	assert.False(t, WithinRadius(thaparUniversity, chandigarh, 20))
}
