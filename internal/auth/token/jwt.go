package token

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/EgorLis/my-auth/internal/domain"
)

// Config — неизменяемая конфигурация менеджера: алгоритм и ключи
// загружаются один раз на старте и дальше только читаются.
type Config struct {
	Algorithm  string // "RS256" | "HS256"
	Issuer     string
	AccessTTL  time.Duration // короткий (минуты)
	RefreshTTL time.Duration // длинный (дни)

	Secret     []byte // HS256
	PrivateKey *rsa.PrivateKey
	PublicKey  *rsa.PublicKey
}

// NewConfig собирает конфигурацию из значений окружения.
// Ключи RS256 приходят как base64(PEM) — как отдаёт деплой.
func NewConfig(alg, issuer, b64Private, b64Public, secret string, accessTTL, refreshTTL time.Duration) (Config, error) {
	cfg := Config{
		Algorithm:  alg,
		Issuer:     issuer,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}

	switch alg {
	case "RS256":
		privPEM, err := base64.StdEncoding.DecodeString(b64Private)
		if err != nil {
			return Config{}, fmt.Errorf("decode private key: %w", err)
		}
		pubPEM, err := base64.StdEncoding.DecodeString(b64Public)
		if err != nil {
			return Config{}, fmt.Errorf("decode public key: %w", err)
		}
		cfg.PrivateKey, err = jwt.ParseRSAPrivateKeyFromPEM(privPEM)
		if err != nil {
			return Config{}, fmt.Errorf("parse private key: %w", err)
		}
		cfg.PublicKey, err = jwt.ParseRSAPublicKeyFromPEM(pubPEM)
		if err != nil {
			return Config{}, fmt.Errorf("parse public key: %w", err)
		}
	case "HS256":
		if secret == "" {
			return Config{}, errors.New("HS256 requires a secret")
		}
		cfg.Secret = []byte(secret)
	default:
		return Config{}, fmt.Errorf("unsupported jwt algorithm %q", alg)
	}
	return cfg, nil
}

type Manager struct {
	cfg      Config
	method   jwt.SigningMethod
	denylist domain.TokenDenylist
}

// Ensure: Manager implements domain.TokenManager
var _ domain.TokenManager = (*Manager)(nil)

func New(cfg Config, denylist domain.TokenDenylist) (*Manager, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", cfg.Algorithm)
	}
	return &Manager{cfg: cfg, method: method, denylist: denylist}, nil
}

// внутренний тип для подписи/парсинга с jwt.RegisteredClaims
type jwtClaims struct {
	Kind domain.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

func (m *Manager) ttl(kind domain.TokenKind) time.Duration {
	if kind == domain.KindRefresh {
		return m.cfg.RefreshTTL
	}
	return m.cfg.AccessTTL
}

func (m *Manager) signKey() any {
	if m.cfg.PrivateKey != nil {
		return m.cfg.PrivateKey
	}
	return m.cfg.Secret
}

func (m *Manager) verifyKey() any {
	if m.cfg.PublicKey != nil {
		return m.cfg.PublicKey
	}
	return m.cfg.Secret
}

// Issue выпускает подписанный токен заданного вида с уникальным jti
func (m *Manager) Issue(_ context.Context, subject domain.UserID, kind domain.TokenKind) (domain.Token, domain.TokenClaims, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()
	exp := now.Add(m.ttl(kind))

	cl := jwtClaims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   subject.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	t := jwt.NewWithClaims(m.method, cl)
	tokenStr, err := t.SignedString(m.signKey())
	if err != nil {
		return "", domain.TokenClaims{}, err
	}

	return domain.Token(tokenStr), domain.TokenClaims{
		JTI:       jti,
		Subject:   subject,
		Kind:      kind,
		IssuedAt:  now,
		ExpiresAt: exp,
	}, nil
}

// Verify валидирует подпись/срок, сверяет вид токена и денайлист.
// Клеймы не используются, пока не прошла проверка подписи.
func (m *Manager) Verify(ctx context.Context, raw domain.Token, kind domain.TokenKind) (domain.TokenClaims, error) {
	var out jwtClaims
	tkn, err := jwt.ParseWithClaims(string(raw), &out, func(token *jwt.Token) (any, error) {
		return m.verifyKey(), nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.TokenClaims{}, domain.ErrExpired
		}
		return domain.TokenClaims{}, domain.ErrInvalidSignature
	}
	if !tkn.Valid {
		return domain.TokenClaims{}, domain.ErrInvalidSignature
	}

	if out.Kind != kind {
		return domain.TokenClaims{}, domain.ErrWrongKind
	}

	revoked, err := m.denylist.IsRevoked(ctx, out.ID)
	if err != nil {
		return domain.TokenClaims{}, fmt.Errorf("denylist check: %w", err)
	}
	if revoked {
		return domain.TokenClaims{}, domain.ErrRevoked
	}

	subject, err := uuid.Parse(out.Subject)
	if err != nil {
		return domain.TokenClaims{}, domain.ErrUnauth
	}

	return domain.TokenClaims{
		JTI:       out.ID,
		Subject:   subject,
		Kind:      out.Kind,
		IssuedAt:  out.IssuedAt.Time,
		ExpiresAt: out.ExpiresAt.Time,
	}, nil
}

// Revoke гасит jti до естественного истечения токена
func (m *Manager) Revoke(ctx context.Context, claims domain.TokenClaims) error {
	if err := m.denylist.Revoke(ctx, claims.JTI, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke %s: %w", claims.JTI, err)
	}
	return nil
}
