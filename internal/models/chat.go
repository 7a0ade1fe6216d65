package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemSenderName — отображаемое имя отправителя служебных сообщений
const SystemSenderName = "System"

// Chat представляет чат, привязанный к объявлению.
// Участников всегда двое: владелец объявления и второй пользователь.
type Chat struct {
	ID           uuid.UUID   `json:"id"`
	ListingID    uuid.UUID   `json:"listingId"`
	Participants []uuid.UUID `json:"participants"`
	Messages     []Message   `json:"messages"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Message представляет сообщение в чате.
// Sender равен nil для служебных сообщений от системы.
type Message struct {
	ID         uuid.UUID  `json:"id"`
	ChatID     uuid.UUID  `json:"chatId"`
	Sender     *uuid.UUID `json:"sender,omitempty"`
	SenderName string     `json:"senderName"`
	Text       string     `json:"text"`
	Timestamp  time.Time  `json:"timestamp"`
}
