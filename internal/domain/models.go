package domain

import (
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type UserID = uuid.UUID

// Роли — открытые строки, сравниваются по членству (не enum)
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Пользователь
type User struct {
	ID        UserID    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"` // уникален, всегда в нижнем регистре
	PassHash  []byte    `json:"-"`     // никогда не отдаём наружу
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Частичное обновление пользователя (админ-операции)
type UserUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}
