package auth

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/EgorLis/my-auth/internal/auth/flow"
	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/logx"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
	v1 "github.com/EgorLis/my-auth/internal/transport/web/v1"
)

// HandlerRegister обрабатывает POST /api/register
type HandlerRegister struct {
	Log  *log.Logger
	Flow *flow.Service
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register godoc
// @Summary     Register new user
// @Description Регистрация нового пользователя. Email нормализуется в lowercase, повтор — 409.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body registerRequest true "name, email, password"
// @Success     201 {object} domain.User
// @Failure     400 {object} domain.APIError
// @Failure     409 {object} domain.APIError
// @Failure     500 {object} domain.APIError
// @Router      /api/register [post]
func (h *HandlerRegister) Register(w http.ResponseWriter, r *http.Request) {
	const op = "auth.register"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Flow.Register(r.Context(), flow.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		logx.Error(h.Log, reqID, op, "register failed", err, "email", req.Email)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "email", u.Email)
	v1.WriteJSON(w, r, http.StatusCreated, u)
}
