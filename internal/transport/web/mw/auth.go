package mw

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/EgorLis/my-auth/internal/domain"
)

// Identity резолвит пользователя по bearer access-токену
type Identity interface {
	Whoami(ctx context.Context, raw domain.Token) (domain.User, error)
}

// RoleChecker — set-membership проверка роли
type RoleChecker interface {
	Check(u domain.User) error
}

type AuthDeps struct {
	Identity Identity
}

// RequireAuth пускает дальше только с валидным access-токеном;
// пользователь кладётся в контекст запроса.
func RequireAuth(deps AuthDeps, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := ExtractBearer(r.Header.Get("Authorization"))
		if raw == "" {
			http.Error(w, `{"detail":"please provide access token"}`, http.StatusBadRequest)
			return
		}
		u, err := deps.Identity.Whoami(r.Context(), domain.Token(raw))
		if err != nil {
			http.Error(w, `{"detail":"unauthenticated"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), u)))
	})
}

// RequireRole — поверх RequireAuth: пользователь уже в контексте
func RequireRole(checker RoleChecker, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := domain.UserFromCtx(r.Context())
		if !ok {
			http.Error(w, `{"detail":"unauthenticated"}`, http.StatusUnauthorized)
			return
		}
		if err := checker.Check(u); err != nil && errors.Is(err, domain.ErrForbidden) {
			http.Error(w, `{"detail":"operation not permitted"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ExtractBearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
