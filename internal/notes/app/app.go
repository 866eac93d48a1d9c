package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"github.com/aussiebroadwan/notes/internal/notes/gate"
	httpapi "github.com/aussiebroadwan/notes/internal/notes/http"
	"github.com/aussiebroadwan/notes/internal/notes/identity"
	"github.com/aussiebroadwan/notes/internal/notes/identity/firebase"
	"github.com/aussiebroadwan/notes/internal/notes/identity/local"
	"github.com/aussiebroadwan/notes/internal/notes/mail"
	"github.com/aussiebroadwan/notes/internal/notes/service"
	"github.com/aussiebroadwan/notes/internal/notes/store"
	"github.com/aussiebroadwan/notes/internal/notes/store/drivers/sqlite"
	"github.com/aussiebroadwan/notes/internal/notes/web"
	"github.com/aussiebroadwan/notes/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the notes service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// ctx lives as long as the process; provider background work hangs off it.
	ctx    context.Context
	cancel context.CancelFunc

	db       store.Store
	provider identity.Provider
	mailer   mail.Sender
	pages    *web.Renderer

	loginService        *service.LoginService
	logoutService       *service.LogoutService
	noteService         *service.NoteService
	statusService       *service.StatusService
	housekeepingService *service.HousekeepingService

	running   bool
	server    *http.Server
	challenge *http.Server // ACME http-01, only with TLS
	certs     *autocert.Manager
	router    *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "notes",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		ctx:    ctx,
		cancel: cancel,
	}

	if err := app.initDatabase(); err != nil {
		cancel()
		return nil, err
	}
	if err := app.initIdentity(); err != nil {
		cancel()
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initPages(); err != nil {
		cancel()
		_ = app.db.Close()
		return nil, err
	}

	app.initMail()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.housekeepingService.Start()
	app.running = true

	app.logger.Info("notes service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"identity_provider", app.cfg.IdentityProvider,
		"tls", app.certs != nil,
	)

	serverErrors := make(chan error, 2)
	go func() {
		if app.certs != nil {
			serverErrors <- app.server.ListenAndServeTLS("", "")
			return
		}
		serverErrors <- app.server.ListenAndServe()
	}()
	if app.challenge != nil {
		go func() {
			serverErrors <- app.challenge.ListenAndServe()
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down notes service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	for _, srv := range []*http.Server{app.server, app.challenge} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			app.logger.Error("graceful server shutdown failed", "addr", srv.Addr, "error", err)
			if err := srv.Close(); err != nil {
				app.logger.Error("error closing server", "addr", srv.Addr, "error", err)
			}
		}
	}

	if app.running {
		app.housekeepingService.Stop()
	}
	app.cancel()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("notes service stopped")
	return nil
}

// initDatabase opens the notes database and applies migrations
func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initIdentity constructs the provider once; everything else receives it.
func (app *Application) initIdentity() error {
	switch app.cfg.IdentityProvider {
	case ProviderLocal:
		p, err := local.New(local.Config{
			AuthorizedDomains: app.cfg.AuthorizedDomains(),
			Logger:            app.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize local identity provider: %w", err)
		}
		app.provider = p
		app.logger.Warn("using the local identity provider; sessions do not survive a restart")

	case ProviderFirebase:
		creds, err := app.cfg.Firebase.CredentialsJSON()
		if err != nil {
			return err
		}
		p, err := firebase.New(app.ctx, firebase.Config{
			ProjectID:       app.cfg.Firebase.ProjectID,
			WebAPIKey:       app.cfg.Firebase.WebAPIKey,
			CredentialsJSON: creds,
			Timeout:         app.cfg.IdentityTimeout,
			Logger:          app.logger,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize firebase identity provider: %w", err)
		}
		app.provider = p

	default:
		return fmt.Errorf("unknown IDENTITY_PROVIDER %q", app.cfg.IdentityProvider)
	}
	return nil
}

func (app *Application) initPages() error {
	pages, err := web.New()
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	app.pages = pages
	return nil
}

// initMail picks the first configured transport: webhook, then SMTP, then
// the in-memory outbox.
func (app *Application) initMail() {
	switch {
	case app.cfg.SendEmailURL != "":
		app.mailer = mail.NewWebhookSender(app.cfg.SendEmailURL, app.cfg.EmailFrom, app.cfg.IdentityTimeout)
		app.logger.Info("email via webhook")
	case app.cfg.SMTPAddr != "":
		app.mailer = mail.NewSMTPSender(app.cfg.SMTPAddr, app.cfg.SMTPUsername, app.cfg.SMTPPassword, app.cfg.EmailFrom)
		app.logger.Info("email via smtp", "addr", app.cfg.SMTPAddr)
	default:
		// In dev the message is echoed so the sign-in link can be clicked.
		var echo io.Writer
		if app.cfg.Env == "dev" {
			echo = os.Stderr
		}
		app.mailer = mail.NewOutbox(app.logger, echo)
		app.logger.Warn("no email transport configured; sign-in links stay in the outbox")
	}
}

func (app *Application) initServices() {
	app.loginService = &service.LoginService{Provider: app.provider, Mail: app.mailer}
	app.logoutService = &service.LogoutService{Provider: app.provider}
	app.noteService = &service.NoteService{Store: app.db}

	app.statusService = &service.StatusService{Store: app.db}
	if p, ok := app.provider.(identity.StatusProber); ok {
		app.statusService.Prober = p
	}
	if p, ok := app.provider.(identity.ReadinessChecker); ok {
		app.statusService.Identity = p
	}

	var tasks []service.Task
	if p, ok := app.provider.(*local.Provider); ok {
		tasks = append(tasks, service.Task{Name: "identity.local.sweep", Run: p.Sweep})
	}
	app.housekeepingService = service.NewHousekeepingService(
		app.logger,
		app.cfg.HousekeepingInterval,
		tasks...,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		gate.New(app.provider, app.pages),
		app.pages,
		BuildVersion,
		app.logger,
	)

	router.PublicOrigin = app.cfg.LinkOrigin()
	router.LoginService = app.loginService
	router.LogoutService = app.logoutService
	router.NoteService = app.noteService
	router.StatusService = app.statusService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	if app.cfg.TLSDomain != "" {
		app.certs = &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(app.cfg.TLSDomain),
			Cache:      autocert.DirCache(app.cfg.TLSCacheDir),
		}
		app.server.TLSConfig = app.certs.TLSConfig()
		app.challenge = &http.Server{
			Addr:              ":80",
			Handler:           app.certs.HTTPHandler(nil),
			ReadHeaderTimeout: 3 * time.Second,
		}
	}
}
