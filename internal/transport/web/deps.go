package web

import (
	"github.com/EgorLis/my-auth/internal/auth/flow"
	"github.com/EgorLis/my-auth/internal/domain"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
)

type Deps struct {
	Users domain.UsersRepo
	Cache domain.Cache
	Flow  *flow.Service
	Admin mw.RoleChecker
}
