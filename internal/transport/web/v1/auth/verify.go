package auth

import (
	"log"
	"net/http"

	"github.com/EgorLis/my-auth/internal/auth/flow"
	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/logx"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-auth/internal/transport/web/v1"
)

type HandlerVerify struct {
	Log  *log.Logger
	Flow *flow.Service
}

// Verify godoc
// @Summary     Verify access token (whoami)
// @Description Возвращает текущего пользователя по валидному access-токену.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.User
// @Failure     400 {object} domain.APIError
// @Failure     401 {object} domain.APIError
// @Router      /api/token/verify [get]
func (h *HandlerVerify) Verify(w http.ResponseWriter, r *http.Request) {
	const op = "auth.verify"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	raw := v1.TokenFromRequest(r)
	if raw == "" {
		logx.Error(h.Log, reqID, op, "missing access token", domain.ErrMissingToken)
		v1.WriteDomainError(w, r, domain.ErrMissingToken)
		return
	}

	u, err := h.Flow.Whoami(r.Context(), raw)
	if err != nil {
		logx.Error(h.Log, reqID, op, "verify failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteJSON(w, r, http.StatusOK, u)
}
