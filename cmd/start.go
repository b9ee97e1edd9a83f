package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transfer-relay/core/loader"
	"transfer-relay/core/logger"
	"transfer-relay/core/middleware/auth"
	"transfer-relay/core/middleware/rayid"

	"transfer-relay/feature/health"
	"transfer-relay/feature/transfer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "transfer-relay/docs/swagger"
)

// @title Transfer Relay API
// @version 1.0
// @description Records file transfers and issues presigned URLs for direct object storage access.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the transfer relay server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		d, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := d.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		cfg := d.cfg

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		healthFeature := health.NewFeature(d.db, d.registry, d.local, logg, schemaModels()...)

		mgr := loader.NewManager(logg)
		mgr.Register(healthFeature)
		mgr.Register(transfer.NewFeature(d.store, d.registry, d.fallback, logg, cfg.Transfer, cfg.Server.PublicURL))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			start := time.Now()
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			l.Info("Request completed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
				zap.Int("status", c.Response().StatusCode()),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		})

		// 3. Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{
			ApiKey: cfg.Server.ApiKey,
			Skip:   []string{"/health", "/metrics", "/swagger"},
		}))

		// 5. Load Features
		if err := mgr.LoadAll(app.Group("/api/v1")); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		// health is also served unversioned and without a key for load balancers
		_ = healthFeature.Load(app)

		// 6. Report the storage transfers will use
		if backend, err := d.registry.Resolve(context.Background()); err != nil {
			logg.Warn("No object storage reachable, transfers use local storage", zap.String("local_path", d.local.BasePath()))
		} else {
			logg.Info("Object storage selected", zap.String("backend", backend.Name()), zap.String("kind", string(backend.Kind())))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.ShutdownWithTimeout(30 * time.Second)
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
