package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
)

// MapDomainError — единая таблица перевода доменной ошибки в HTTP-статус
// и короткую причину. Детали (подпись/срок/ревокация) остаются в логах.
func MapDomainError(err error) (httpStatus int, e domain.APIError) {
	switch {
	case errors.Is(err, domain.ErrBadParams):
		return http.StatusBadRequest, domain.Fail("bad params")
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, domain.Fail("account already exists")
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, domain.Fail("incorrect email or password")
	case errors.Is(err, domain.ErrUnverified):
		return http.StatusUnauthorized, domain.Fail("please verify your email address")
	case errors.Is(err, domain.ErrMissingToken):
		return http.StatusBadRequest, domain.Fail("missing token")
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized, domain.Fail("invalid token")
	case errors.Is(err, domain.ErrExpired):
		return http.StatusUnauthorized, domain.Fail("token expired")
	case errors.Is(err, domain.ErrWrongKind):
		return http.StatusUnauthorized, domain.Fail("wrong token kind")
	case errors.Is(err, domain.ErrRevoked):
		return http.StatusUnauthorized, domain.Fail("token revoked")
	case errors.Is(err, domain.ErrUnauth):
		return http.StatusUnauthorized, domain.Fail("user belonging to this token no longer exists")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.Fail("operation not permitted")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.Fail("not found")
	case errors.Is(err, domain.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, domain.Fail("method not allowed")
	default:
		// Таймауты/отмены — как 500
		return http.StatusInternalServerError, domain.Fail("unexpected")
	}
}

// WriteJSON пишет тело ответа с request id в заголовке
func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, e := MapDomainError(err)
	WriteJSON(w, r, status, e)
}

// Шорткат успеха для операций без полезной нагрузки
func WriteStatusSuccess(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, r, http.StatusOK, domain.StatusResponse{Status: "success"})
}
