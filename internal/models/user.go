package models

import (
	"github.com/google/uuid"
)

// Location представляет географическую точку с текстовым адресом
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// User представляет публичную информацию о пользователе для API
type User struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"reviewCount"`
	Location    *Location `json:"location,omitempty"`
}
