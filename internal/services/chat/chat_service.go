package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tableturn/tableturn-api/internal/config"
	"github.com/tableturn/tableturn-api/internal/db"
	"github.com/tableturn/tableturn-api/internal/models"
	"github.com/tableturn/tableturn-api/internal/utils"
)

// ChatService представляет сервис для работы с чатами объявлений
type ChatService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
}

// NewChatService создает новый экземпляр ChatService
func NewChatService(cfg *config.Config) *ChatService {
	return &ChatService{
		cfg:        cfg,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// GetChat возвращает чат объявления, в котором состоит текущий пользователь.
// Если чата еще нет, возвращается пустой список сообщений, а не 404: клиент
// показывает пустую переписку до первого сообщения.
func (s *ChatService) GetChat(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	chat, err := findChat(ctx, db.Pool, listingUUID, userUUID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.JSON(fiber.Map{"messages": []models.Message{}})
		}
		log.Printf("Ошибка запроса чата: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load chat"})
	}

	chat.Messages, err = loadMessages(ctx, db.Pool, chat.ID)
	if err != nil {
		log.Printf("Ошибка запроса сообщений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load messages"})
	}

	return c.JSON(chat)
}

// SendMessage добавляет сообщение в чат объявления. Если чата еще нет,
// он создается лениво с участниками {владелец объявления, отправитель}.
func (s *ChatService) SendMessage(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user id"})
	}

	listingUUID, err := uuid.Parse(c.Params("listingId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing id"})
	}

	var requestData struct {
		Text string `json:"text"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка чтения тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if requestData.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message text required"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	sender, err := db.GetUserByID(ctx, userUUID)
	if err != nil {
		log.Printf("Ошибка получения отправителя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load user"})
	}

	// Создание чата и добавление сообщения — один атомарный шаг
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка начала транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	defer tx.Rollback(ctx)

	chat, err := findChat(ctx, tx, listingUUID, userUUID)
	if err != nil {
		if err != pgx.ErrNoRows {
			log.Printf("Ошибка поиска чата: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load chat"})
		}

		// Чата нет — создаем, узнав владельца объявления
		var providerID uuid.UUID
		err = tx.QueryRow(ctx, `
			SELECT provider_id FROM listings WHERE id = $1
		`, listingUUID).Scan(&providerID)

		if err != nil {
			if err == pgx.ErrNoRows {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Listing not found"})
			}
			log.Printf("Ошибка запроса объявления: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load listing"})
		}

		chatID, err := createChat(ctx, tx, listingUUID, providerID, userUUID)
		if err != nil {
			log.Printf("Ошибка создания чата: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create chat"})
		}

		chat, err = findChatByID(ctx, tx, chatID)
		if err != nil {
			log.Printf("Ошибка чтения созданного чата: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load chat"})
		}
	}

	// Добавляем сообщение со снапшотом имени отправителя
	messageID := uuid.New()
	now := time.Now()

	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, chat_id, sender_id, sender_name, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, messageID, chat.ID, userUUID, sender.Name, requestData.Text, now)

	if err != nil {
		log.Printf("Ошибка создания сообщения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save message"})
	}

	if err = tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	chat.Messages, err = loadMessages(ctx, db.Pool, chat.ID)
	if err != nil {
		log.Printf("Ошибка запроса сообщений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load messages"})
	}

	return c.JSON(chat)
}

// EnsureChatTx находит или создает чат для пары (объявление, claimant) и
// добавляет в новый чат системное сообщение. Вызывается из транзакции
// бронирования объявления, для существующего чата ничего не меняет.
func EnsureChatTx(ctx context.Context, tx pgx.Tx, listingID, providerID, claimantID uuid.UUID, listingTitle string) (uuid.UUID, error) {
	chat, err := findChat(ctx, tx, listingID, claimantID)
	if err == nil {
		return chat.ID, nil
	}
	if err != pgx.ErrNoRows {
		return uuid.Nil, fmt.Errorf("ошибка поиска чата: %w", err)
	}

	chatID, err := createChat(ctx, tx, listingID, providerID, claimantID)
	if err != nil {
		return uuid.Nil, err
	}

	// Системное сообщение открывает переписку
	_, err = tx.Exec(ctx, `
		INSERT INTO messages (id, chat_id, sender_id, sender_name, text, created_at)
		VALUES ($1, $2, NULL, $3, $4, NOW())
	`, uuid.New(), chatID, models.SystemSenderName, fmt.Sprintf("Chat started for %q", listingTitle))

	if err != nil {
		return uuid.Nil, fmt.Errorf("ошибка создания системного сообщения: %w", err)
	}

	return chatID, nil
}

// queryer объединяет пул и транзакцию для читающих запросов
type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// findChat ищет чат объявления, в котором участвует пользователь
func findChat(ctx context.Context, q queryer, listingID, participantID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	var provider, claimant uuid.UUID

	err := q.QueryRow(ctx, `
		SELECT id, listing_id, provider_id, claimant_id, created_at
		FROM chats
		WHERE listing_id = $1 AND (provider_id = $2 OR claimant_id = $2)
	`, listingID, participantID).Scan(&chat.ID, &chat.ListingID, &provider, &claimant, &chat.CreatedAt)

	if err != nil {
		return nil, err
	}

	chat.Participants = []uuid.UUID{provider, claimant}
	return &chat, nil
}

// findChatByID возвращает чат по идентификатору
func findChatByID(ctx context.Context, q queryer, chatID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	var provider, claimant uuid.UUID

	err := q.QueryRow(ctx, `
		SELECT id, listing_id, provider_id, claimant_id, created_at
		FROM chats
		WHERE id = $1
	`, chatID).Scan(&chat.ID, &chat.ListingID, &provider, &claimant, &chat.CreatedAt)

	if err != nil {
		return nil, err
	}

	chat.Participants = []uuid.UUID{provider, claimant}
	return &chat, nil
}

// createChat вставляет новый чат с двумя участниками
func createChat(ctx context.Context, tx pgx.Tx, listingID, providerID, claimantID uuid.UUID) (uuid.UUID, error) {
	chatID := uuid.New()

	_, err := tx.Exec(ctx, `
		INSERT INTO chats (id, listing_id, provider_id, claimant_id)
		VALUES ($1, $2, $3, $4)
	`, chatID, listingID, providerID, claimantID)

	if err != nil {
		return uuid.Nil, fmt.Errorf("ошибка создания чата: %w", err)
	}

	return chatID, nil
}

// loadMessages возвращает сообщения чата в хронологическом порядке
func loadMessages(ctx context.Context, q queryer, chatID uuid.UUID) ([]models.Message, error) {
	rows, err := q.Query(ctx, `
		SELECT id, chat_id, sender_id, sender_name, text, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC
	`, chatID)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.Sender,
			&msg.SenderName,
			&msg.Text,
			&msg.Timestamp,
		); err != nil {
			log.Printf("Ошибка сканирования сообщения: %v", err)
			continue
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}
