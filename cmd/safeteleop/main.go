package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/open-teleop/safeteleop/domain/diagnostic"
	"github.com/open-teleop/safeteleop/domain/teleop"
	"github.com/open-teleop/safeteleop/pkg/api"
	"github.com/open-teleop/safeteleop/pkg/config"
	"github.com/open-teleop/safeteleop/pkg/discovery"
	customlog "github.com/open-teleop/safeteleop/pkg/log"
	"github.com/open-teleop/safeteleop/pkg/zeromq"
	"github.com/pebbe/zmq4"
)

const shutdownTimeout = 5 * time.Second

func main() {
	overrides, err := config.ParseEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read environment: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadBootstrapConfig(overrides.ConfigDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load bootstrap config: %v\n", err)
		os.Exit(1)
	}
	if err := overrides.Apply(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to apply environment overrides: %v\n", err)
		os.Exit(1)
	}

	appLogger, err := customlog.NewLogrusLogger(cfg.Logging.Level, cfg.Logging.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	appLogger.Infof("Loaded config from %s", overrides.ConfigDir)
	appLogger.Infof("Safety limits: max_linear=%.2f max_angular=%.2f max_cmd_vel_age=%.2fs sector=%.1fdeg distance=%.2fm",
		cfg.Safety.MaxLinearVel, cfg.Safety.MaxAngularVel, cfg.Safety.MaxCmdVelAge,
		cfg.Safety.SectorHalfAngleDeg, cfg.Safety.MinSafetyDistance)

	if err := run(cfg, appLogger); err != nil {
		appLogger.Fatalf("safeteleop: %v", err)
	}
}

func run(cfg *config.BootstrapConfig, appLogger customlog.Logger) error {
	zctx, err := zmq4.NewContext()
	if err != nil {
		return fmt.Errorf("failed to create ZMQ context: %w", err)
	}
	defer func() {
		if err := zctx.Term(); err != nil {
			appLogger.Warnf("ZMQ context termination: %v", err)
		}
	}()

	publisher, err := zeromq.NewCommandPublisher(zctx, cfg.ZeroMQ.CommandPublishAddress, cfg.ZeroMQ.CommandTopic, appLogger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	diagnosticService := diagnostic.NewDiagnosticService()
	supervisor := newSupervisor(cfg, publisher, diagnosticService, appLogger)
	// Stop is idempotent; the deferred call covers early error returns.
	defer supervisor.Stop()

	retry := time.Duration(cfg.ZeroMQ.ReconnectIntervalMs) * time.Millisecond
	scanListener, err := zeromq.NewScanListener(zctx, cfg.ZeroMQ.ScanSubscribeAddress, cfg.ZeroMQ.ScanTopic, retry, supervisor, appLogger)
	if err != nil {
		return err
	}
	defer scanListener.Stop()

	var operatorService *zeromq.OperatorService
	if cfg.ZeroMQ.OperatorBindAddress != "" {
		dispatcher := zeromq.NewMessageDispatcher(appLogger)
		zeromq.RegisterOperatorHandlers(dispatcher, supervisor, cfg.Safety, appLogger)
		operatorService, err = zeromq.NewOperatorService(zctx, cfg.ZeroMQ.OperatorBindAddress, dispatcher, appLogger)
		if err != nil {
			return err
		}
		defer operatorService.Stop()
	}

	app := newApp(cfg, supervisor, diagnosticService, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	scanListener.Start()
	if operatorService != nil {
		operatorService.Start()
	}
	if err := supervisor.Start(ctx); err != nil {
		return err
	}

	if cfg.Discovery.Enabled {
		advertiser := discovery.NewDiscoveryService(cfg, appLogger)
		if err := advertiser.Start(); err != nil {
			appLogger.Warnf("mDNS advertisement disabled: %v", err)
		} else {
			defer advertiser.Stop()
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		appLogger.Infof("Server starting on %s", addr)
		serverErr <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		appLogger.Infof("Received %s, shutting down", sig)
	case err := <-serverErr:
		appLogger.Errorf("Server stopped: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Warnf("Server forced to shutdown: %v", err)
	}

	// Order matters: stop the inputs, then the loop so its final zero command
	// goes out through the still open publisher.
	if operatorService != nil {
		operatorService.Stop()
	}
	scanListener.Stop()
	supervisor.Stop()
	publisher.Close()

	appLogger.Infof("safeteleop exited properly")
	return nil
}

// newSupervisor runs the control loop at the fixed teleop.DefaultControlPeriod.
func newSupervisor(cfg *config.BootstrapConfig, publisher teleop.CommandPublisher, observer teleop.CycleObserver, logger customlog.Logger) *teleop.Supervisor {
	return teleop.NewSupervisor(publisher, teleop.Options{
		Limits:   teleop.LimitsFromConfig(cfg.Safety),
		Logger:   logger.WithField("component", "supervisor"),
		Observer: observer,
	})
}

func newApp(cfg *config.BootstrapConfig, supervisor *teleop.Supervisor, diagnosticService *diagnostic.DiagnosticService, appLogger customlog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "safeteleop",
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "online",
			"service": "safeteleop",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	apiGroup := app.Group("/api")
	teleop.NewTeleopService(supervisor).RegisterRoutes(apiGroup.Group("/teleop"))
	apiGroup.Get("/diagnostics", diagnosticService.GetMetricsHandler)
	api.RegisterConfigRoutes(app, cfg.Safety, appLogger)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/teleop", websocket.New(func(conn *websocket.Conn) {
		api.ControlWebSocketHandler(conn, appLogger.WithField("component", "control_ws"), supervisor)
	}))

	return app
}

// Custom error handler
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
