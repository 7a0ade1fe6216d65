package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem представляет запись в списке желаний пользователя.
// Пара (user_id, listing_id) уникальна.
type WishlistItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	ListingID uuid.UUID `json:"listingId"`
	CreatedAt time.Time `json:"createdAt"`

	// Дополнительные поля для API
	Listing *Listing `json:"listing,omitempty"`
}
