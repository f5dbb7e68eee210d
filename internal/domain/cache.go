package domain

import "context"

// Ключи кеша — единое место, чтобы не расползались по коду.
func CacheKeyTokenJTI(jti string) string { return "jti:" + jti }

// Простой k/v интерфейс с TTL. Реализация — Redis.
// Get для отсутствующего ключа возвращает (nil, nil), не ошибку.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Ping(context.Context) error
	Close()
}
