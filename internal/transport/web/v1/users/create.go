package users

import (
	"encoding/json"
	"net/http"

	"github.com/EgorLis/my-auth/internal/auth/flow"
	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/logx"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-auth/internal/transport/web/v1"
)

type createRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // пусто => "user"
}

// Create godoc
// @Summary     Create user (admin)
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body createRequest true "name, email, password, role"
// @Success     201 {object} domain.User
// @Failure     400 {object} domain.APIError
// @Failure     403 {object} domain.APIError
// @Failure     409 {object} domain.APIError
// @Router      /api/users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "users.create"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start")

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Flow.Register(r.Context(), flow.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "create failed", err, "email", req.Email)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteJSON(w, r, http.StatusCreated, u)
}
