package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// User представляет пользователя в системе
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Rating       float64
	ReviewCount  int
	Lat          float64
	Lng          float64
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ErrUserNotFound возвращается, когда пользователь не найден
var ErrUserNotFound = fmt.Errorf("пользователь не найден")

// ErrEmailTaken возвращается при попытке регистрации с занятым email
var ErrEmailTaken = fmt.Errorf("email уже зарегистрирован")

// CreateUser создает нового пользователя с хешем пароля и стартовой локацией
func CreateUser(name, email, passwordHash string, lat, lng float64, address string) (*User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	// Проверяем, не занят ли email
	var exists bool
	err := Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)
	`, email).Scan(&exists)

	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке email: %w", err)
	}

	if exists {
		return nil, ErrEmailTaken
	}

	user := &User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Lat:          lat,
		Lng:          lng,
		Address:      address,
	}

	err = Pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, lat, lng, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING rating, review_count, created_at, updated_at
	`, user.ID, name, email, passwordHash, lat, lng, address).Scan(
		&user.Rating,
		&user.ReviewCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return user, nil
}

// GetUserByEmail возвращает пользователя по email вместе с хешем пароля
func GetUserByEmail(email string) (*User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	user, err := scanUser(Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, rating, review_count, lat, lng, address, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email))

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return user, nil
}

// GetUserByID возвращает пользователя по идентификатору
func GetUserByID(ctx context.Context, userID uuid.UUID) (*User, error) {
	user, err := scanUser(Pool.QueryRow(ctx, `
		SELECT id, name, email, password_hash, rating, review_count, lat, lng, address, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID))

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return user, nil
}

// UpdateUserLocation обновляет локацию пользователя
func UpdateUserLocation(userID uuid.UUID, lat, lng float64, address string) (*User, error) {
	ctx, cancel := GetContext()
	defer cancel()

	tag, err := Pool.Exec(ctx, `
		UPDATE users
		SET lat = $1, lng = $2, address = $3, updated_at = NOW()
		WHERE id = $4
	`, lat, lng, address, userID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при обновлении локации: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return nil, ErrUserNotFound
	}

	return GetUserByID(ctx, userID)
}

// UpdateUserRating сохраняет пересчитанный агрегированный рейтинг пользователя.
// Рейтинг является производным значением и меняется только этим путем.
func UpdateUserRating(ctx context.Context, tx pgx.Tx, userID uuid.UUID, rating float64, reviewCount int) error {
	_, err := tx.Exec(ctx, `
		UPDATE users
		SET rating = $1, review_count = $2, updated_at = NOW()
		WHERE id = $3
	`, rating, reviewCount, userID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении рейтинга пользователя: %w", err)
	}

	return nil
}

// scanUser читает строку таблицы users в структуру User
func scanUser(row pgx.Row) (*User, error) {
	var user User
	var address pgtype.Text

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Rating,
		&user.ReviewCount,
		&user.Lat,
		&user.Lng,
		&address,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	if address.Valid {
		user.Address = address.String
	}

	return &user, nil
}
