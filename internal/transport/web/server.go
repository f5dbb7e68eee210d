package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/EgorLis/my-auth/internal/config"
	authv1 "github.com/EgorLis/my-auth/internal/transport/web/v1/auth"
	"github.com/EgorLis/my-auth/internal/transport/web/v1/health"
	usersv1 "github.com/EgorLis/my-auth/internal/transport/web/v1/users"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, deps Deps) *Server {
	healthLog := log.New(logger.Writer(), logger.Prefix()+"[health] ", logger.Flags())
	authLog := log.New(logger.Writer(), logger.Prefix()+"[auth] ", logger.Flags())
	usersLog := log.New(logger.Writer(), logger.Prefix()+"[users] ", logger.Flags())

	h := handlers{
		health:   &health.Handler{Log: healthLog, DB: deps.Users, Cache: deps.Cache},
		register: &authv1.HandlerRegister{Log: authLog, Flow: deps.Flow},
		login:    &authv1.HandlerLogin{Log: authLog, Flow: deps.Flow},
		refresh:  &authv1.HandlerRefresh{Log: authLog, Flow: deps.Flow},
		verify:   &authv1.HandlerVerify{Log: authLog, Flow: deps.Flow},
		revoke:   &authv1.HandlerRevoke{Log: authLog, Flow: deps.Flow},
		users:    &usersv1.Handler{Log: usersLog, Users: deps.Users, Flow: deps.Flow},
	}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(h, deps, cfg.ClientOrigin, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
