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

type HandlerRevoke struct {
	Log  *log.Logger
	Flow *flow.Service
}

// RevokeAccess godoc
// @Summary     Revoke access token
// @Description Гасит предъявленный access-токен до его естественного истечения.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.StatusResponse
// @Failure     400 {object} domain.APIError
// @Failure     401 {object} domain.APIError
// @Failure     500 {object} domain.APIError
// @Router      /api/revoke/access [delete]
func (h *HandlerRevoke) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	h.revoke(w, r, "auth.revoke_access", domain.KindAccess)
}

// RevokeRefresh godoc
// @Summary     Revoke refresh token
// @Description Гасит предъявленный refresh-токен до его естественного истечения.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.StatusResponse
// @Failure     400 {object} domain.APIError
// @Failure     401 {object} domain.APIError
// @Failure     500 {object} domain.APIError
// @Router      /api/revoke/refresh [delete]
func (h *HandlerRevoke) RevokeRefresh(w http.ResponseWriter, r *http.Request) {
	h.revoke(w, r, "auth.revoke_refresh", domain.KindRefresh)
}

func (h *HandlerRevoke) revoke(w http.ResponseWriter, r *http.Request, op string, kind domain.TokenKind) {
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	raw := v1.TokenFromRequest(r)
	if raw == "" {
		logx.Error(h.Log, reqID, op, "missing token", domain.ErrMissingToken, "kind", kind)
		v1.WriteDomainError(w, r, domain.ErrMissingToken)
		return
	}

	if err := h.Flow.Revoke(r.Context(), raw, kind); err != nil {
		logx.Error(h.Log, reqID, op, "revoke failed", err, "kind", kind)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "kind", kind)
	v1.WriteStatusSuccess(w, r)
}
