package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/juju/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpapi "github.com/aussiebroadwan/loandesk/internal/loans/http"
	"github.com/aussiebroadwan/loandesk/internal/loans/service"
	"github.com/aussiebroadwan/loandesk/internal/loans/store"
	"github.com/aussiebroadwan/loandesk/internal/loans/store/drivers/postgres"
	"github.com/aussiebroadwan/loandesk/internal/loans/store/drivers/sqlite"
	"github.com/aussiebroadwan/loandesk/pkg/cryptox"
	"github.com/aussiebroadwan/loandesk/pkg/httpx"
	"github.com/aussiebroadwan/loandesk/pkg/jwtx"
	"github.com/aussiebroadwan/loandesk/pkg/slogx"
)

// BuildVersion is overridden at build time with -ldflags "-X ...".
var BuildVersion = "v0.1.0"

// Application wires the loan service together.
type Application struct {
	cfg    Config
	logger *slog.Logger
	clock  clock.Clock

	db       store.Store
	registry *prometheus.Registry

	auditService        *service.AuditService
	userService         *service.UserService
	sessionService      *service.SessionService
	mfaService          *service.MFAService
	applicationService  *service.ApplicationService
	housekeepingService *service.HousekeepingService
	authenticator       *service.Authenticator

	server *http.Server
	router *httpapi.Router
}

// New validates cfg, opens the database, applies migrations and builds the
// services and HTTP server. Nothing is started.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:   cfg,
		clock: clock.WallClock,
		logger: slogx.New(slogx.Config{
			Service: "loandesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initHTTP(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	return app, nil
}

// Migrate opens the configured database, applies migrations and closes it.
func Migrate(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	db, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	return nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("loandesk starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"driver", app.cfg.Database.Driver,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			_ = app.db.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops housekeeping and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down loandesk...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("loandesk stopped")
	return nil
}

func openStore(cfg DatabaseConfig) (store.Store, error) {
	var (
		db  store.Store
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		db, err = postgres.NewStore(cfg.DSN)
	default:
		db, err = sqlite.NewStore(cfg.DSN)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, nil
}

func (app *Application) initDatabase() error {
	db, err := openStore(app.cfg.Database)
	if err != nil {
		return err
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.Database.Driver)
	return nil
}

// jwtSecret returns the configured secret, or outside production a random
// one that lives as long as the process.
func (app *Application) jwtSecret() ([]byte, error) {
	if app.cfg.Auth.JWTSecret != "" {
		return []byte(app.cfg.Auth.JWTSecret), nil
	}
	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}
	app.logger.Warn("no JWT secret configured, using a random one; sessions will not survive a restart")
	return []byte(secret), nil
}

func (app *Application) initServices() error {
	secret, err := app.jwtSecret()
	if err != nil {
		return fmt.Errorf("jwt secret: %w", err)
	}
	signer, err := jwtx.NewSignerHS256(secret)
	if err != nil {
		return fmt.Errorf("jwt signer: %w", err)
	}
	verifier, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{
		Issuer: app.cfg.Auth.Issuer,
		Now:    app.clock.Now,
	})
	if err != nil {
		return fmt.Errorf("jwt verifier: %w", err)
	}

	pepper, err := cryptox.LoadOrCreatePepper(app.cfg.Auth.PepperFile)
	if err != nil {
		return fmt.Errorf("pepper: %w", err)
	}
	hasher := cryptox.NewPasswordHasher(pepper)

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(app.cfg.MetricsNamespace, app.registry)

	app.auditService = &service.AuditService{Store: app.db, Clock: app.clock, Metrics: metrics}
	app.userService = &service.UserService{
		Store:  app.db,
		Hasher: hasher,
		Audit:  app.auditService,
		Clock:  app.clock,
	}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Audit:  app.auditService,
		Clock:  app.clock,
		Issuer: app.cfg.Auth.TOTPIssuer,
	}

	revocations := &service.RevocationService{Store: app.db, Clock: app.clock}
	tokens := &service.TokenService{
		Signer: signer,
		Issuer: app.cfg.Auth.Issuer,
		TTL:    app.cfg.Auth.TokenTTL,
		Clock:  app.clock,
	}
	app.authenticator = &service.Authenticator{
		Verifier:    verifier,
		Revocations: revocations,
		Store:       app.db,
	}
	app.sessionService = &service.SessionService{
		Store:             app.db,
		Users:             app.userService,
		Hasher:            hasher,
		Tokens:            tokens,
		Revocations:       revocations,
		MFA:               app.mfaService,
		Audit:             app.auditService,
		Clock:             app.clock,
		Metrics:           metrics,
		MaxFailedAttempts: app.cfg.Auth.MaxFailedAttempts,
		LockoutDuration:   app.cfg.Auth.LockoutDuration,
	}
	app.applicationService = &service.ApplicationService{
		Store:   app.db,
		Audit:   app.auditService,
		Clock:   app.clock,
		Metrics: metrics,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.clock,
		app.cfg.Housekeeping.Interval,
	)
	app.housekeepingService.AuditRetention = app.cfg.Housekeeping.AuditRetention
	app.housekeepingService.Metrics = metrics

	return nil
}

func (app *Application) initHTTP() error {
	proxies, err := httpx.ParseTrustedProxies(app.cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	router := httpapi.NewRouter(
		BuildVersion,
		app.cfg.IsProduction(),
		app.db,
		app.logger,
		httpx.NewMetrics(app.cfg.MetricsNamespace, app.registry),
	)

	router.Authenticator = app.authenticator
	router.Sessions = app.sessionService
	router.Users = app.userService
	router.MFA = app.mfaService
	router.Applications = app.applicationService
	router.Audit = app.auditService
	router.TrustedProxies = proxies
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
