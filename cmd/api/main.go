package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetstack/inventory-api/internal/api"
	"github.com/fleetstack/inventory-api/internal/core/domain"
	"github.com/fleetstack/inventory-api/internal/core/ports"
	"github.com/fleetstack/inventory-api/internal/core/service"
	"github.com/fleetstack/inventory-api/internal/infrastructure/db/postgres"
	redisdb "github.com/fleetstack/inventory-api/internal/infrastructure/db/redis"
	"github.com/fleetstack/inventory-api/internal/migrate"
	"github.com/fleetstack/inventory-api/internal/pkg/config"
	"github.com/fleetstack/inventory-api/pkg/logger"

	_ "github.com/fleetstack/inventory-api/docs"
)

// @title Inventory API
// @version 1.0
// @description Device and cart inventory service with JWT authentication and role-based authorization.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("load config")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if err := migrate.Up(ctx, cfg.Postgres.DSN); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	pool, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	// The permission cache is an optimisation; the service comes up without
	// Redis and resolves permissions straight from Postgres.
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, permission cache disabled")
		rdb = nil
	} else {
		defer rdb.Close()
	}

	if err := bootstrapAdmin(ctx, cfg, pool, log); err != nil {
		log.Fatal().Err(err).Msg("bootstrap admin account")
	}

	e := api.NewRouter(cfg, pool, rdb, log)
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("inventory-api started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}

// bootstrapAdmin creates the initial admin account when BOOTSTRAP_ADMIN_PASSWORD
// is set and no visible account with the configured username exists. The admin
// role itself is seeded by migrations.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, pool postgres.PgxPool, log zerolog.Logger) error {
	if cfg.Bootstrap.AdminPassword == "" {
		return nil
	}

	db := postgres.NewDB(pool)
	users := postgres.NewUserRepository(db)
	rbac := postgres.NewRBACRepository(db)

	if _, err := users.FindByUsername(ctx, cfg.Bootstrap.AdminUsername); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	role, err := rbac.FindRoleByName(ctx, "admin")
	if err != nil {
		return err
	}

	codec := service.NewTokenCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	auth := service.NewAuthService(users, codec, log)
	user, err := auth.Register(ctx, ports.RegisterInput{
		Username: cfg.Bootstrap.AdminUsername,
		Password: cfg.Bootstrap.AdminPassword,
		RoleUUID: role.UUID,
	})
	if err != nil {
		return err
	}

	log.Info().Str("username", user.Username).Msg("bootstrap admin account created")
	return nil
}
