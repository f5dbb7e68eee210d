package web

import (
	"log"
	"net/http"

	_ "github.com/EgorLis/my-auth/internal/docs"
	"github.com/EgorLis/my-auth/internal/transport/web/mw"
	authv1 "github.com/EgorLis/my-auth/internal/transport/web/v1/auth"
	"github.com/EgorLis/my-auth/internal/transport/web/v1/health"
	usersv1 "github.com/EgorLis/my-auth/internal/transport/web/v1/users"
	httpSwagger "github.com/swaggo/http-swagger"
)

type handlers struct {
	health   *health.Handler
	register *authv1.HandlerRegister
	login    *authv1.HandlerLogin
	refresh  *authv1.HandlerRefresh
	verify   *authv1.HandlerVerify
	revoke   *authv1.HandlerRevoke
	users    *usersv1.Handler
}

func newRouter(h handlers, deps Deps, clientOrigin string, logger *log.Logger) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /api/healthchecker", h.health.Liveness)
	mux.HandleFunc("GET /api/healthz", h.health.Liveness)
	mux.HandleFunc("GET /api/readyz", h.health.Readiness)

	// auth
	mux.HandleFunc("POST /api/register", limitBody(1<<20, h.register.Register))
	mux.HandleFunc("POST /api/login", limitBody(1<<20, h.login.Login))
	mux.HandleFunc("POST /api/token/refresh", h.refresh.Refresh)
	mux.HandleFunc("GET /api/token/verify", h.verify.Verify)
	mux.HandleFunc("DELETE /api/revoke/access", h.revoke.RevokeAccess)
	mux.HandleFunc("DELETE /api/revoke/refresh", h.revoke.RevokeRefresh)

	// admin users: access-токен + роль admin
	admin := func(hf http.HandlerFunc) http.Handler {
		return mw.RequireAuth(mw.AuthDeps{Identity: deps.Flow},
			mw.RequireRole(deps.Admin, hf))
	}
	mux.Handle("POST /api/users", admin(limitBody(1<<20, h.users.Create)))
	mux.Handle("GET /api/users", admin(h.users.List))
	mux.Handle("GET /api/users/{id}", admin(h.users.Get))
	mux.Handle("PUT /api/users/{id}", admin(limitBody(1<<20, h.users.Update)))
	mux.Handle("DELETE /api/users/{id}", admin(h.users.Delete))

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware
	return mw.WithRequestID(mw.CORS(clientOrigin)(mw.Logging(logger)(mux)))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
