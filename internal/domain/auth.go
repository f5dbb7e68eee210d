package domain

import (
	"context"
	"time"
)

type Token string

// Вид токена. Access и refresh живут по независимым TTL
// (минуты и дни соответственно) и не взаимозаменяемы.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

type TokenClaims struct {
	JTI       string // уникальный id токена, ключ денайлиста
	Subject   UserID
	Kind      TokenKind
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Пара токенов, выдаваемая при логине и ротации
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Хеширование паролей
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

// Управление токенами (JWT — реализация в internal/auth/token).
// Verify сначала проверяет подпись и только потом доверяет клеймам;
// отозванность сверяется с денайлистом.
type TokenManager interface {
	Issue(ctx context.Context, subject UserID, kind TokenKind) (Token, TokenClaims, error)
	Verify(ctx context.Context, t Token, kind TokenKind) (TokenClaims, error)
	Revoke(ctx context.Context, claims TokenClaims) error
}

// Денайлист отозванных jti (Redis). TTL записи ограничен остатком
// жизни самого токена — хранилище не растёт бесконечно.
type TokenDenylist interface {
	Revoke(ctx context.Context, jti string, exp time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
