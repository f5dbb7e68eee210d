package users

import (
	"net/http"

	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/logx"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-auth/internal/transport/web/v1"
)

// Get godoc
// @Summary     Get user by id (admin)
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "user id"
// @Success     200 {object} domain.User
// @Failure     403 {object} domain.APIError
// @Failure     404 {object} domain.APIError
// @Router      /api/users/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "users.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := idFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UserByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err, "user_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteJSON(w, r, http.StatusOK, u)
}
