package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/classify"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/config"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/exporter"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/handlers"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/lookup"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/mapper"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/processor"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/router"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/store"
	"github.com/PratyakshSaluja/Linkedin-Data-Formatter/internal/telemetry"
)

// App represents the main application
type App struct {
	config    *config.Config
	logger    *zap.Logger
	telemetry *telemetry.Telemetry
	store     store.Store
	server    *http.Server
}

func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Initialize telemetry
	tel, err := telemetry.NewTelemetry(logger)
	if err != nil {
		return nil, err
	}

	// Use the factory to create the store
	factory := store.NewFactory(logger, tel)
	configJSON := cfg.DBConfig
	if configJSON == "" {
		// Default to the in-memory store
		configJSON = store.DefaultConfigJSON()
	}
	st, err := factory.CreateStore(configJSON)
	if err != nil {
		return nil, err
	}

	client := lookup.NewProxycurlClient(cfg.ProxycurlAPIKey, logger,
		lookup.WithTimeout(cfg.LookupTimeout))

	m, err := mapper.New(classify.DefaultConfig())
	if err != nil {
		return nil, err
	}

	proc := processor.New(client, m, st, tel, logger, cfg.LookupConcurrency)
	exp := exporter.New(st, logger)

	// Initialize router with handlers
	limiter := rate.NewLimiter(rate.Limit(cfg.RPSLimit), cfg.RPSBurst)

	handlerList := []router.Handler{
		handlers.NewProcessHandler(proc, logger),
		handlers.NewExportHandler(exp, cfg.ExportPath, cfg.ExportDir, logger),
	}

	appRouter := router.NewRouter(limiter, tel, logger, handlerList)
	server := appRouter.CreateServer(":" + cfg.Port)

	return &App{
		config:    cfg,
		logger:    logger,
		telemetry: tel,
		store:     st,
		server:    server,
	}, nil
}

// Start starts the application server
func (app *App) start() error {
	app.logger.Info("starting server", zap.String("port", app.config.Port))

	go func() {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the application
func (app *App) stop() error {
	app.logger.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	if err := app.store.Close(); err != nil {
		app.logger.Error("failed to close store", zap.Error(err))
	}

	app.logger.Info("server exited gracefully")
	return nil
}

// Run starts the application and waits for shutdown signals
func (app *App) Run() error {
	// Start the server
	if err := app.start(); err != nil {
		return err
	}

	// Wait for interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wait for shutdown signal
	<-ctx.Done()

	// Stop the application
	return app.stop()
}
