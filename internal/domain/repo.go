package domain

import (
	"context"
)

// Репозиторий пользователей. Отсутствие записи — ErrNotFound,
// дубликат email — ErrConflict (уникальность обеспечивает БД).
type UsersRepo interface {
	Close()
	Ping(context.Context) error
	CreateUser(ctx context.Context, u User) (User, error)
	UserByID(ctx context.Context, id UserID) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UpdateUser(ctx context.Context, id UserID, upd UserUpdate) (User, error)
	DeleteUser(ctx context.Context, id UserID) error
	ListUsers(ctx context.Context) ([]User, error)
}
