package models

import (
	"time"

	"github.com/google/uuid"
)

// Допустимые категории объявлений
const (
	CategoryPrepared = "prepared"
	CategoryProduce  = "produce"
	CategoryBakery   = "bakery"
)

// Статусы жизненного цикла объявления
const (
	StatusAvailable = "available"
	StatusClaimed   = "claimed"
	StatusExpired   = "expired"
)

// Listing представляет объявление о еде в системе
type Listing struct {
	ID          uuid.UUID  `json:"id"`
	ProviderID  uuid.UUID  `json:"providerId"`
	Provider    string     `json:"provider"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"` // prepared, produce, bakery
	Quantity    string     `json:"quantity,omitempty"`
	Price       string     `json:"price"`
	Location    Location   `json:"location"`
	Image       string     `json:"image,omitempty"`
	ExpiresAt   time.Time  `json:"expiresAt"`
	Status      string     `json:"status"` // available, claimed, expired
	ClaimedBy   *uuid.UUID `json:"claimedBy,omitempty"`
	Rating      float64    `json:"rating"`
	ReviewCount int        `json:"reviewCount"`
	Reviews     []Review   `json:"reviews"`
	Dietary     []string   `json:"dietary"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Review представляет отзыв на объявление
type Review struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listingId"`
	UserID    uuid.UUID `json:"userId"`
	User      string    `json:"user"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text,omitempty"`
	Date      time.Time `json:"date"`
}

// ValidCategory проверяет, что категория входит в список допустимых
func ValidCategory(category string) bool {
	switch category {
	case CategoryPrepared, CategoryProduce, CategoryBakery:
		return true
	}
	return false
}
