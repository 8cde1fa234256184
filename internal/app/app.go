package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"userbase/config"
	"userbase/internal/adapter/in/rest"
	memstore "userbase/internal/adapter/out/storage/inmemory"
	pgstore "userbase/internal/adapter/out/storage/postgres"
	"userbase/internal/service"
	"userbase/pkg/logger"
	"userbase/pkg/pagination"
	"userbase/pkg/password"
	"userbase/pkg/token"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const tokenIssuer = "userbase"

type App struct {
	cfg  config.Config
	srv  *http.Server
	pool *pgxpool.Pool
}

func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	log := logger.FromContext(ctx)

	hasher, err := password.NewHasher(cfg.Auth.Salt)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}
	tokens, err := token.NewManager(cfg.Auth.Secret, tokenIssuer, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	var (
		userStorage service.UserStorage
		txManager   service.TxManager
		pool        *pgxpool.Pool
	)

	switch cfg.StorageType {
	case config.StoragePostgres:
		pool, err = pgxpool.New(ctx, cfg.Postgres.GetDSN())
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("pgxpool ping: %w", err)
		}
		userStorage = pgstore.NewUserStorage(pool, trmpgx.DefaultCtxGetter)
		txManager = manager.Must(trmpgx.NewDefaultFactory(pool))

	default:
		userStorage = memstore.NewUserStorage()
		txManager = memstore.NewTxManager()
	}

	pager := pagination.NewBuilder(cfg.Pagination.DefaultPerPage)
	userSvc := service.NewUserService(userStorage, txManager, hasher, pager)
	authSvc := service.NewAuthService(userStorage, hasher, tokens)

	h := rest.NewHandler(userSvc, authSvc, rest.Config{
		PublicBaseURL: cfg.HTTP.PublicBaseURL,
		CookieTTL:     cfg.Auth.TokenTTL,
		CookieSecure:  cfg.Auth.CookieSecure,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = rest.ErrorHandler
	e.Use(middleware.Recover())
	e.Use(rest.WithLogger(log))
	e.Use(rest.RequestLogger(log))
	h.Register(e)

	addr := ":" + cfg.HTTP.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("app initialized",
		"addr", addr,
		"storage", cfg.StorageType,
		"default_per_page", pager.DefaultPerPage(),
	)
	return &App{cfg: cfg, srv: srv, pool: pool}, nil
}

func (a *App) Handler() http.Handler {
	return a.srv.Handler
}

func (a *App) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", "addr", a.srv.Addr)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := a.srv.Shutdown(shCtx)
		a.close()
		return err

	case err := <-errCh:
		a.close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) close() {
	if a.pool != nil {
		a.pool.Close()
	}
}
