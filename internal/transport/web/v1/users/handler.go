package users

import (
	"log"
	"net/http"

	"github.com/EgorLis/my-auth/internal/auth/flow"
	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/google/uuid"
)

// Админ-операции над пользователями. Доступ гейтится снаружи:
// RequireAuth + RequireRole("admin").
type Handler struct {
	Log   *log.Logger
	Users domain.UsersRepo
	Flow  *flow.Service
}

func idFromPath(r *http.Request) (domain.UserID, error) {
	return uuid.Parse(r.PathValue("id"))
}
