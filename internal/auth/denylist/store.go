package denylist

import (
	"context"
	"time"

	"github.com/EgorLis/my-auth/internal/domain"
)

// Отозванным считается только ключ с явным маркером: get обязан
// различать три состояния — отсутствует / маркер / иное значение.
const Marker = "expired"

// KV — минимальный интерфейс, который нам нужен от кеша.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
}

type Store struct {
	kv KV
}

// Ensure: Store implements domain.TokenDenylist
var _ domain.TokenDenylist = (*Store)(nil)

func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

func (s *Store) key(jti string) string { return domain.CacheKeyTokenJTI(jti) }

// Revoke помечает jti отозванным до времени exp. TTL равен остатку
// жизни токена: запись не переживает сам токен, но и не истекает
// раньше него.
func (s *Store) Revoke(ctx context.Context, jti string, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		ttl = time.Minute // подстраховка, если exp в прошлом
	}
	secs := int((ttl + time.Second - 1) / time.Second) // округляем вверх
	return s.kv.Set(ctx, s.key(jti), []byte(Marker), secs)
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	b, err := s.kv.Get(ctx, s.key(jti))
	if err != nil {
		return false, err
	}
	return b != nil && string(b) == Marker, nil
}
