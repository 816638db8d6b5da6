package app

import (
	"context"
	"time"

	"go-leave-portal/internal/approvaltoken"
	"go-leave-portal/internal/authorization"
	"go-leave-portal/internal/balance"
	"go-leave-portal/internal/config"
	"go-leave-portal/internal/employee"
	"go-leave-portal/internal/leave"
	"go-leave-portal/internal/messaging/kafka"
	"go-leave-portal/internal/middleware"
	"go-leave-portal/internal/notification"
	"go-leave-portal/internal/permission"
	"go-leave-portal/internal/rbac"
	"go-leave-portal/internal/shared/dbtx"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

const tierPolicySyncInterval = time.Minute

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	cfg config.Config,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	permissionRepo := permission.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	authorizationRepo := authorization.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)
	tierPolicyRepo := rbac.NewRepository(gormDB)
	txManager := dbtx.NewManager(gormDB)

	// --- Policy ---
	tierPolicy, err := rbac.NewService(ctx, tierPolicyRepo, logger)
	if err != nil {
		return err
	}
	go tierPolicy.Sync(ctx, tierPolicySyncInterval)
	permissionService := permission.NewService(permissionRepo, employeeRepo, rdb, logger)

	// --- Realtime ---
	hub := notification.NewHub(cfg.JWTSecret, cfg.CORSOrigins, logger)
	go hub.Run(ctx)

	// --- Services ---
	employeeService := employee.NewService(employeeRepo, permissionService, rdb, logger)
	balanceService := balance.NewService(balanceRepo, logger)
	tokenStore := approvaltoken.NewStore(rdb, cfg.ApprovalSecret, cfg.ApprovalTokenTTL, logger)
	leaveService := leave.NewService(leave.Deps{
		Repo:      leaveRepo,
		Tx:        txManager,
		Perms:     permissionService,
		Tiers:     tierPolicy,
		Ledger:    balanceService,
		Employees: employeeRepo,
		Outbox:    outboxRepo,
		Tokens:    tokenStore,
		Notifier:  hub,
	}, logger)
	authorizationService := authorization.NewService(authorizationRepo, txManager, permissionService, outboxRepo, logger)
	notificationService := notification.NewService(notificationRepo, hub, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	permissionHandler := permission.NewHandler(permissionService, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	authorizationHandler := authorization.NewHandler(authorizationService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	rbacHandler := rbac.NewHandler(tierPolicy, logger)

	// --- Routes Registration ---
	api, protected := mountGroups(router, cfg, logger)

	idempotent := middleware.Idempotency(rdb, logger.Named("middleware.idempotency"))
	consumeLimit := middleware.RateLimitByIP(rate.Every(2*time.Second), 5)

	{
		employee.RegisterRoutes(protected, employeeHandler)
		permission.RegisterRoutes(protected, permissionHandler)
		rbac.RegisterRoutes(protected, rbacHandler, permissionService)
		balance.RegisterRoutes(protected, balanceHandler, permissionService)
		leave.RegisterRoutes(protected, api, leaveHandler, idempotent, consumeLimit)
		authorization.RegisterRoutes(protected, authorizationHandler)
		notification.RegisterRoutes(protected, api, notificationHandler, hub)
	}

	return nil
}

// mountGroups returns the public /api/v1 group and its authenticated child.
// The request logger is attached once, after authentication.
func mountGroups(router *gin.Engine, cfg config.Config, logger *zap.Logger) (api, protected *gin.RouterGroup) {
	api = router.Group("/api/v1")

	protected = api.Group("")
	protected.Use(
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ExtractUserID(),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(rate.Limit(20), 40),
	)
	return api, protected
}
