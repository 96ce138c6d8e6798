package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	"github.com/fleetstack/inventory-api/internal/api/handler"
	"github.com/fleetstack/inventory-api/internal/api/middleware"
	"github.com/fleetstack/inventory-api/internal/core/ports"
	"github.com/fleetstack/inventory-api/internal/core/service"
	"github.com/fleetstack/inventory-api/internal/infrastructure/db/postgres"
	redisdb "github.com/fleetstack/inventory-api/internal/infrastructure/db/redis"
	"github.com/fleetstack/inventory-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// Every protected route gets its own gate bound to the canonical route
// pattern, so authorization is declared per logical endpoint and resolved
// once per registration, independent of path-parameter values.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Env)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("inventory"))

	// --- Dependencies ---
	db := postgres.NewDB(pool)
	userRepo := postgres.NewUserRepository(db)
	rbacRepo := postgres.NewRBACRepository(db)
	deviceRepo := postgres.NewDeviceRepository(db)
	cartRepo := postgres.NewCartRepository(db)

	var permCache ports.PermissionCache
	if rdb != nil {
		permCache = redisdb.NewPermissionCache(rdb, cfg.Redis.CacheTTL)
	}

	codec := service.NewTokenCodec(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	resolver := service.NewPermissionService(rbacRepo, permCache, log)
	authService := service.NewAuthService(userRepo, codec, log)
	userService := service.NewUserService(userRepo, log)
	rbacService := service.NewRBACService(rbacRepo, permCache, log)
	deviceService := service.NewDeviceService(deviceRepo, log)
	cartService := service.NewCartService(cartRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	rbacHandler := handler.NewRBACHandler(rbacService)
	deviceHandler := handler.NewDeviceHandler(deviceService)
	cartHandler := handler.NewCartHandler(cartService)

	guard := func(route string) echo.MiddlewareFunc {
		return middleware.Gate(codec, resolver, route)
	}

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/refresh", authHandler.Refresh)
	e.POST("/register", authHandler.Register, guard("/register"))

	// --- Devices ---
	e.GET("/devices", deviceHandler.List, guard("/devices"))
	e.POST("/devices", deviceHandler.Create, guard("/devices"))
	e.GET("/devices/:uuid", deviceHandler.Get, guard("/devices/:uuid"))
	e.PUT("/devices/:uuid", deviceHandler.Update, guard("/devices/:uuid"))
	e.DELETE("/devices/:uuid", deviceHandler.Delete, guard("/devices/:uuid"))

	// --- Carts ---
	e.GET("/carts", cartHandler.List, guard("/carts"))
	e.POST("/carts", cartHandler.Create, guard("/carts"))
	e.GET("/carts/:uuid", cartHandler.Get, guard("/carts/:uuid"))
	e.DELETE("/carts/:uuid", cartHandler.Delete, guard("/carts/:uuid"))
	e.POST("/carts/:uuid/checkout", cartHandler.Checkout,
		middleware.ConditionalGate(codec, resolver, "/carts/:uuid/checkout", "forceOverride"))

	// --- Admin: users ---
	e.GET("/users", userHandler.List, guard("/users"))
	e.GET("/users/:uuid", userHandler.Get, guard("/users/:uuid"))
	e.DELETE("/users/:uuid", userHandler.Delete, guard("/users/:uuid"))

	// --- Admin: RBAC schema ---
	e.GET("/roles", rbacHandler.ListRoles, guard("/roles"))
	e.POST("/roles", rbacHandler.CreateRole, guard("/roles"))
	e.GET("/roles/:uuid", rbacHandler.GetRole, guard("/roles/:uuid"))
	e.DELETE("/roles/:uuid", rbacHandler.DeleteRole, guard("/roles/:uuid"))
	e.POST("/roles/:uuid/permissions", rbacHandler.Grant, guard("/roles/:uuid/permissions"))
	e.DELETE("/roles/:uuid/permissions/:permission", rbacHandler.Revoke, guard("/roles/:uuid/permissions/:permission"))

	e.GET("/permissions", rbacHandler.ListPermissions, guard("/permissions"))
	e.POST("/permissions", rbacHandler.CreatePermission, guard("/permissions"))
	e.DELETE("/permissions/:uuid", rbacHandler.DeletePermission, guard("/permissions/:uuid"))

	e.GET("/endpoints", rbacHandler.ListEndpoints, guard("/endpoints"))
	e.POST("/endpoints", rbacHandler.CreateEndpoint, guard("/endpoints"))
	e.DELETE("/endpoints/:uuid", rbacHandler.DeleteEndpoint, guard("/endpoints/:uuid"))

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
