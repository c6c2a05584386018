// Package server initializes and runs the payroll backend.
// It wires the database, field cipher, token service, and credential
// authenticator together, and serves the JSON API with graceful shutdown.
package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ledgerline/payroll-server/internal/common"
	"github.com/ledgerline/payroll-server/internal/fieldcrypt"
	"github.com/ledgerline/payroll-server/internal/logging"
	"github.com/ledgerline/payroll-server/internal/password"
	"github.com/ledgerline/payroll-server/internal/server/auth"
	"github.com/ledgerline/payroll-server/internal/server/companies"
	"github.com/ledgerline/payroll-server/internal/server/config"
	"github.com/ledgerline/payroll-server/internal/server/employees"
	"github.com/ledgerline/payroll-server/internal/server/httpapi"
	"github.com/ledgerline/payroll-server/internal/server/shared/db"
	"github.com/ledgerline/payroll-server/internal/token"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	repos           db.RepositoryManager
	authenticator   *auth.Authenticator
	employeeService *employees.Service
	companyService  *companies.Service
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))).
		With("service", "payroll-server")

	repos, err := db.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	key, err := base64.StdEncoding.DecodeString(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("decoding encryption key: %w", err)
	}
	cipher, err := fieldcrypt.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("field cipher init: %w", err)
	}
	// The cipher holds its own key schedule; drop the raw bytes.
	common.WipeByteArray(key)

	tokens := token.NewService([]byte(cfg.JWTSecret))
	hasher := password.NewHasher()

	authenticator := auth.NewAuthenticator(
		repos.Identities(), repos.Companies(), hasher, tokens, cfg, logger)

	return &App{
		config:          cfg,
		logger:          logger,
		repos:           repos,
		authenticator:   authenticator,
		employeeService: employees.NewService(repos.Conn(), cipher),
		companyService:  companies.NewService(repos.Conn(), cipher),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	mux := http.NewServeMux()
	httpapi.NewHandler(app.authenticator, app.logger).Register(mux)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Conn().Close(); err != nil {
		app.logger.Error(ctx, "closing db", "error", err)
	}
}
