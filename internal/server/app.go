// Package server wires configuration, storage, services and the HTTP
// server together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/petkeeper/internal/logging"
	"github.com/dmitrijs2005/petkeeper/internal/server/auth"
	"github.com/dmitrijs2005/petkeeper/internal/server/config"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/petkeeper/internal/server/rest"
	"github.com/dmitrijs2005/petkeeper/internal/server/services"
	"github.com/dmitrijs2005/petkeeper/internal/server/validation"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// redisKeyPrefix namespaces refresh tokens in a shared redis.
const redisKeyPrefix = "petkeeper:refresh:"

var sqlOpen = sql.Open

// App wires configuration, storage and the HTTP server together.
type App struct {
	config *config.Config
	logger logging.Logger
}

// NewApp creates an App with a logger built from c.
func NewApp(c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stdout, c.LogBackend, c.LogFormat, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	return &App{config: c, logger: logger}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a shutdown signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	db, err := app.openDB(ctx)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			app.logger.Error(ctx, "closing database", "error", err)
		}
	}()

	store, closer, err := newRefreshTokenStore(app.config)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() {
			if err := closer.Close(); err != nil {
				app.logger.Error(ctx, "closing refresh token store", "error", err)
			}
		}()
	}

	var opts []repomanager.Option
	if store != nil {
		opts = append(opts, repomanager.WithRefreshTokenStore(store))
	}
	rm := repomanager.NewPostgresRepositoryManager(opts...)
	if err := rm.RunMigrations(ctx, db); err != nil {
		return err
	}

	handler, err := app.buildServer(db, rm)
	if err != nil {
		return err
	}
	return handler.Run(ctx)
}

func (app *App) buildServer(db *sql.DB, rm repomanager.RepositoryManager) (*rest.Server, error) {
	c := app.config

	hasher, err := auth.NewHasher(c.PasswordHasher, c.BcryptCost)
	if err != nil {
		return nil, err
	}
	access := auth.NewTokenIssuer([]byte(c.AccessTokenSecret), c.AccessTokenTTL)
	refresh := auth.NewTokenIssuer([]byte(c.RefreshTokenSecret), c.RefreshTokenTTL)

	var images services.ImageStore
	if c.ImagesEnabled() {
		images = services.NewS3ImageStore(c)
	}

	v, err := validation.New()
	if err != nil {
		return nil, err
	}
	sameSite, err := config.ParseSameSite(c.CookieSameSite)
	if err != nil {
		return nil, err
	}
	proxies, err := rest.ParseProxyList(c.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	users, err := services.NewUserService(db, rm, hasher, access, refresh)
	if err != nil {
		return nil, err
	}

	return rest.NewServer(rest.Options{
		Address:   c.HTTPAddress,
		Logger:    app.logger,
		Users:     users,
		Pets:      services.NewPetService(db, rm, images),
		Reminders: services.NewReminderService(db, rm),
		Validator: v,
		Cookies: rest.CookieSettings{
			Name:     c.CookieName,
			Secure:   c.CookieSecure,
			SameSite: sameSite,
			MaxAge:   c.AccessTokenTTL,
		},
		Throttle: rest.NewLoginThrottle(c.LoginMaxAttempts, c.LoginWindow, c.LoginLockDuration),
		Metrics:  rest.NewMetrics(),

		TrustedProxies: proxies,
	}), nil
}

// openDB opens the pool and pings it with exponential backoff until it
// answers or DBConnectTimeout elapses.
func (app *App) openDB(ctx context.Context) (*sql.DB, error) {
	db, err := sqlOpen("pgx", app.config.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := pingWithBackoff(ctx, db, app.config.DBConnectTimeout, func(err error, next time.Duration) {
		app.logger.Warn(ctx, "database not ready, retrying", "error", err, "next", next)
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func pingWithBackoff(ctx context.Context, db *sql.DB, timeout time.Duration, notify backoff.Notify) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = timeout

	return backoff.RetryNotify(func() error {
		return db.PingContext(ctx)
	}, backoff.WithContext(b, ctx), notify)
}

// newRefreshTokenStore returns the configured refresh token store. A nil
// store means the postgres default of the repository manager. The closer,
// when non-nil, releases the store's connections.
func newRefreshTokenStore(c *config.Config) (refreshtokens.Repository, io.Closer, error) {
	switch c.RefreshTokenStore {
	case config.StoreMemory:
		return refreshtokens.NewMemoryRepository(), nil, nil
	case config.StoreRedis:
		opts, err := redis.ParseURL(c.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		return refreshtokens.NewRedisRepository(rdb, redisKeyPrefix), rdb, nil
	default:
		return nil, nil, nil
	}
}
