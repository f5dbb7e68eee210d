package users

import (
	"net/http"

	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/logx"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-auth/internal/transport/web/v1"
)

// List godoc
// @Summary     List users (admin)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} domain.User
// @Failure     403 {object} domain.APIError
// @Failure     404 {object} domain.APIError
// @Router      /api/users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "users.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	list, err := h.Users.ListUsers(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}
	if len(list) == 0 {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "count", len(list))
	v1.WriteJSON(w, r, http.StatusOK, list)
}
