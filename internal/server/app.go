// Package server initializes and runs the auth service: it opens the
// database, applies migrations, wires the credential verifier, token issuer
// and repositories into the auth service, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/avasiliev/authkeeper/internal/logging"
	"github.com/avasiliev/authkeeper/internal/server/auth"
	"github.com/avasiliev/authkeeper/internal/server/config"
	"github.com/avasiliev/authkeeper/internal/server/ops"
	"github.com/avasiliev/authkeeper/internal/server/password"
	"github.com/avasiliev/authkeeper/internal/server/repositories/repomanager"
	"github.com/avasiliev/authkeeper/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService *services.AuthService
}

// NewApp constructs the application. All collaborators are built here and
// injected explicitly; nothing initializes lazily on first use.
func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	issuer := auth.NewJWTIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration, c.RefreshTokenValidityDuration)
	hasher := password.NewBcryptHasher()
	authService := services.NewAuthService(db, rm, hasher, issuer, c)

	return &App{config: c, logger: logger, db: db, authService: authService}, nil
}

// Auth exposes the wired auth service to embedding callers.
func (app *App) Auth() *services.AuthService {
	return app.authService
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startOpsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := ops.NewServer(app.config.EndpointAddrHTTP, app.db.PingContext, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startOpsServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
