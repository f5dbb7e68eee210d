package users

import (
	"net/http"

	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/logx"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-auth/internal/transport/web/v1"
)

// Delete godoc
// @Summary     Delete user (admin)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "user id"
// @Success     200 {object} domain.StatusResponse
// @Failure     403 {object} domain.APIError
// @Failure     404 {object} domain.APIError
// @Router      /api/users/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "users.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := idFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "user_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", id)
	v1.WriteStatusSuccess(w, r)
}
