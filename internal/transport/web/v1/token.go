package v1

import (
	"net/http"

	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
)

// TokenFromRequest достаёт bearer-токен из Authorization.
// Пустая строка — токен не передан (ErrMissingToken на уровне хендлера).
func TokenFromRequest(r *http.Request) domain.Token {
	return domain.Token(mw.ExtractBearer(r.Header.Get("Authorization")))
}
