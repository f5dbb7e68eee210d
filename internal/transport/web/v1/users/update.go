package users

import (
	"encoding/json"
	"net/http"

	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/logx"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-auth/internal/transport/web/v1"
)

// Update godoc
// @Summary     Update user (admin)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "user id"
// @Param       request body domain.UserUpdate true "name, email, role, verified"
// @Success     200 {object} domain.User
// @Failure     400 {object} domain.APIError
// @Failure     403 {object} domain.APIError
// @Failure     404 {object} domain.APIError
// @Router      /api/users/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "users.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := idFromPath(r)
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var upd domain.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	upd.Email = domain.NormalizeEmail(upd.Email)
	if upd.Name == "" || !domain.ValidEmail(upd.Email) || upd.Role == "" {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UpdateUser(r.Context(), id, upd)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "user_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteJSON(w, r, http.StatusOK, u)
}
