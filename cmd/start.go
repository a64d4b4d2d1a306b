package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"admanager-sync/core/audit"
	"admanager-sync/core/config"
	"admanager-sync/core/database"
	"admanager-sync/core/gam"
	"admanager-sync/core/loader"
	"admanager-sync/core/logger"
	"admanager-sync/core/middleware/auth"
	"admanager-sync/core/middleware/rayid"
	"admanager-sync/core/storage"

	"admanager-sync/feature/reports"
	"admanager-sync/feature/targeting"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Establish the Ad Manager session
		session, err := gam.NewSession(ctx, cfg.GAM)
		if err != nil {
			logg.Fatal("Failed to establish Ad Manager session", zap.Error(err))
		}
		logg = logg.With(zap.String("network", session.NetworkCode()))
		logg.Info("Ad Manager session established")

		// 4. Connect to Audit Database (Optional)
		var recorder *audit.Recorder
		if cfg.Database.Enabled {
			db, err := database.Connect(cfg.Database)
			if err != nil {
				logg.Warn("Optional audit database connection failed", zap.Error(err))
			} else if recorder, err = audit.NewRecorder(db); err != nil {
				logg.Warn("Audit recorder setup failed", zap.Error(err))
			} else {
				logg.Info("Audit trail enabled")
			}
		}

		// 5. Initialize Report Archive Storage (Optional)
		var store storage.Client
		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Fatal("Failed to create storage client", zap.Error(err))
			}
			if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
				logg.Fatal("Failed to ensure archive bucket", zap.Error(err))
			}
			store = client
			logg.Info("Report archive enabled", zap.String("bucket", cfg.Storage.Bucket))
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(targeting.NewFeature(session.Targeting(), recorder, logg))
		mgr.Register(reports.NewFeature(session.Reports(), store, cfg.Storage.Bucket, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
