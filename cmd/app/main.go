package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"reelcraft/cmd/fx/account_fx"
	"reelcraft/cmd/fx/admin_fx"
	"reelcraft/cmd/fx/config_fx"
	"reelcraft/cmd/fx/controllers_fx"
	"reelcraft/cmd/fx/db_fx"
	"reelcraft/cmd/fx/generation_fx"
	"reelcraft/cmd/fx/ledger_fx"
	"reelcraft/cmd/fx/memcache_fx"
	"reelcraft/internal/api/controllers"
	"reelcraft/internal/config"
	"reelcraft/internal/services"
	"reelcraft/pkg/metrics"
	"reelcraft/pkg/middleware"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		account_fx.Module,
		ledger_fx.Module,
		generation_fx.Module,
		admin_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, logger *logrus.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Infof("Starting HTTP server at %s", srv.Addr)
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatalf("HTTP server stopped: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server")
			stopCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(stopCtx)
		},
	})
}

type RouterParams struct {
	fx.In

	Config                 *config.Config
	Logger                 *logrus.Logger
	Metrics                *metrics.Metrics
	Identity               services.IdentityServiceInterface
	GenerationController   *controllers.GenerationController
	SubscriptionController *controllers.SubscriptionController
	SessionController      *controllers.SessionController
	AdminController        *controllers.AdminController
}

func ProvideRouter(p RouterParams) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Logger))
	r.Use(p.Metrics.Middleware())
	r.Use(middleware.CORSMiddleware(p.Config.Server.CORSOrigin))

	RegisterRoutes(r, p)

	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(p.Metrics.Handler()))
	r.GET("/plans", p.SubscriptionController.ListPlans)

	authed := r.Group("/")
	authed.Use(middleware.AuthMiddleware(p.Identity))
	authed.POST("/generations", p.GenerationController.CreateGeneration)
	authed.POST("/sessions/revoke", p.SessionController.RevokeSession)

	me := authed.Group("/me")
	me.GET("/subscription", p.SubscriptionController.GetMySubscription)
	me.GET("/overview", p.SubscriptionController.GetMyOverview)
	me.GET("/generations", p.GenerationController.ListMyGenerations)

	admin := authed.Group("/admin")
	admin.Use(middleware.AdminMiddleware())
	admin.POST("/accounts/admin-flag", p.AdminController.SetAdminFlag)
	admin.POST("/accounts/plan", p.AdminController.SetPlan)
	admin.GET("/audit", p.AdminController.ListAudit)
	admin.GET("/settlement-conflicts", p.AdminController.ListSettlementConflicts)
}
