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

type HandlerRefresh struct {
	Log  *log.Logger
	Flow *flow.Service
}

// Refresh godoc
// @Summary     Rotate refresh token
// @Description Одноразовый refresh: использованный токен гасится, выдаётся новая пара.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.TokensResponse
// @Failure     400 {object} domain.APIError
// @Failure     401 {object} domain.APIError
// @Failure     500 {object} domain.APIError
// @Router      /api/token/refresh [post]
func (h *HandlerRefresh) Refresh(w http.ResponseWriter, r *http.Request) {
	const op = "auth.refresh"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	raw := v1.TokenFromRequest(r)
	if raw == "" {
		logx.Error(h.Log, reqID, op, "missing refresh token", domain.ErrMissingToken)
		v1.WriteDomainError(w, r, domain.ErrMissingToken)
		return
	}

	pair, err := h.Flow.Refresh(r.Context(), raw)
	if err != nil {
		logx.Error(h.Log, reqID, op, "refresh failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteJSON(w, r, http.StatusOK, domain.TokensResponse{
		Status:       "success",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
