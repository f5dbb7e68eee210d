package flow

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/EgorLis/my-auth/internal/domain"
)

// Service — сценарии аутентификации: регистрация, логин, ротация
// refresh-токена, whoami и ревокация. Состояния между вызовами нет,
// всё общее — в репозитории и денайлисте.
type Service struct {
	log    *log.Logger
	users  domain.UsersRepo
	hasher domain.PasswordHasher
	tokens domain.TokenManager
}

func New(logger *log.Logger, users domain.UsersRepo, hasher domain.PasswordHasher, tokens domain.TokenManager) *Service {
	return &Service{log: logger, users: users, hasher: hasher, tokens: tokens}
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     string // пусто => "user"; задаётся только админ-операцией
}

// Register создаёт пользователя: email нормализуется в lowercase,
// пароль хэшируется, verified=true (подтверждение почты не делаем).
func (s *Service) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	email := domain.NormalizeEmail(p.Email)
	if p.Name == "" || !domain.ValidEmail(email) || !domain.ValidPassword(p.Password) {
		return domain.User{}, domain.ErrBadParams
	}

	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return domain.User{}, domain.ErrConflict
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	role := p.Role
	if role == "" {
		role = domain.RoleUser
	}

	u, err := s.users.CreateUser(ctx, domain.User{
		Name:     p.Name,
		Email:    email,
		PassHash: []byte(hash),
		Role:     role,
		Verified: true,
	})
	if err != nil {
		// гонка на уникальном индексе — тот же Conflict
		return domain.User{}, err
	}

	s.log.Printf("registered user id=%s email=%s", u.ID, u.Email)
	return u, nil
}

// Login сверяет учётные данные и выдаёт пару access+refresh.
// «Нет такого пользователя» и «не тот пароль» наружу неразличимы.
func (s *Service) Login(ctx context.Context, email, passwd string) (domain.TokenPair, error) {
	u, err := s.users.UserByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenPair{}, domain.ErrInvalidCredentials
		}
		return domain.TokenPair{}, fmt.Errorf("lookup email: %w", err)
	}

	if !u.Verified {
		return domain.TokenPair{}, domain.ErrUnverified
	}

	ok, err := s.hasher.Verify(passwd, string(u.PassHash))
	if err != nil || !ok {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}

	return s.issuePair(ctx, u.ID)
}

// Refresh — ротация: refresh-токен одноразовый, использованный jti
// гасится до выпуска новой пары.
func (s *Service) Refresh(ctx context.Context, raw domain.Token) (domain.TokenPair, error) {
	claims, err := s.tokens.Verify(ctx, raw, domain.KindRefresh)
	if err != nil {
		return domain.TokenPair{}, err
	}

	u, err := s.users.UserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TokenPair{}, domain.ErrUnauth
		}
		return domain.TokenPair{}, fmt.Errorf("lookup subject: %w", err)
	}

	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return domain.TokenPair{}, err
	}

	return s.issuePair(ctx, u.ID)
}

// Whoami резолвит пользователя по валидному access-токену
func (s *Service) Whoami(ctx context.Context, raw domain.Token) (domain.User, error) {
	claims, err := s.tokens.Verify(ctx, raw, domain.KindAccess)
	if err != nil {
		return domain.User{}, err
	}

	u, err := s.users.UserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, domain.ErrUnauth
		}
		return domain.User{}, fmt.Errorf("lookup subject: %w", err)
	}
	return u, nil
}

// Revoke гасит токен заданного вида. Повторная ревокация того же
// токена вернёт ErrRevoked на Verify — состояние денайлиста то же.
func (s *Service) Revoke(ctx context.Context, raw domain.Token, kind domain.TokenKind) error {
	claims, err := s.tokens.Verify(ctx, raw, kind)
	if err != nil {
		return err
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		// неудачная запись в денайлист не должна выглядеть успехом
		return err
	}
	s.log.Printf("revoked %s token jti=%s", kind, claims.JTI)
	return nil
}

func (s *Service) issuePair(ctx context.Context, id domain.UserID) (domain.TokenPair, error) {
	access, _, err := s.tokens.Issue(ctx, id, domain.KindAccess)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue access: %w", err)
	}
	refresh, _, err := s.tokens.Issue(ctx, id, domain.KindRefresh)
	if err != nil {
		return domain.TokenPair{}, fmt.Errorf("issue refresh: %w", err)
	}
	return domain.TokenPair{AccessToken: string(access), RefreshToken: string(refresh)}, nil
}
