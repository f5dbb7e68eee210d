package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/EgorLis/my-auth/internal/auth/denylist"
	"github.com/EgorLis/my-auth/internal/auth/flow"
	"github.com/EgorLis/my-auth/internal/auth/password"
	"github.com/EgorLis/my-auth/internal/auth/roles"
	"github.com/EgorLis/my-auth/internal/auth/token"
	"github.com/EgorLis/my-auth/internal/config"
	"github.com/EgorLis/my-auth/internal/domain"
	redisx "github.com/EgorLis/my-auth/internal/infra/cache/redis"
	"github.com/EgorLis/my-auth/internal/infra/database/postgres"
	"github.com/EgorLis/my-auth/internal/transport/web"
)

type App struct {
	config *config.Config
	server *web.Server
	log    *log.Logger
	cache  domain.Cache
	repo   domain.UsersRepo
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	flowLog := log.New(base.Writer(), base.Prefix()+"[authflow] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	// Auth primitives: ключи грузим один раз, дальше только чтение
	hasher := password.NewDefault()
	dl := denylist.NewStore(rc)
	tokenCfg, err := token.NewConfig(
		cfg.JWTAlgorithm, cfg.AuthIssuer,
		cfg.JWTPrivateKey, cfg.JWTPublicKey, cfg.JWTSecret,
		cfg.AccessTTL(), cfg.RefreshTTL(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed init jwt config: %w", err)
	}
	tm, err := token.New(tokenCfg, dl)
	if err != nil {
		return nil, fmt.Errorf("failed init token manager: %w", err)
	}
	authFlow := flow.New(flowLog, pgRepo, hasher, tm)

	base.Println("init Server")
	deps := web.Deps{
		Users: pgRepo,
		Cache: rc,
		Flow:  authFlow,
		Admin: roles.NewChecker(domain.RoleAdmin),
	}
	server := web.New(serverLog, cfg, deps)
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config: cfg,
		server: server,
		log:    base,
		repo:   pgRepo,
		cache:  rc}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()

	return nil
}
