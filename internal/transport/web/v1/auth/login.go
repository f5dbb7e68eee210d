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

type HandlerLogin struct {
	Log  *log.Logger
	Flow *flow.Service
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login godoc
// @Summary     Authenticate user
// @Description Возвращает пару access+refresh при валидных email и пароле.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body loginRequest true "email, password"
// @Success     200 {object} domain.TokensResponse
// @Failure     400 {object} domain.APIError
// @Failure     401 {object} domain.APIError
// @Failure     500 {object} domain.APIError
// @Router      /api/login [post]
func (h *HandlerLogin) Login(w http.ResponseWriter, r *http.Request) {
	const op = "auth.login"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}
	if req.Email == "" || req.Password == "" {
		logx.Error(h.Log, reqID, op, "empty email or password", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	pair, err := h.Flow.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logx.Error(h.Log, reqID, op, "login failed", err, "email", req.Email)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "email", req.Email)
	v1.WriteJSON(w, r, http.StatusOK, domain.TokensResponse{
		Status:       "success",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
