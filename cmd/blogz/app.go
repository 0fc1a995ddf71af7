package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nkiryanov/blogz/internal/db"
	"github.com/nkiryanov/blogz/internal/handlers"
	"github.com/nkiryanov/blogz/internal/logger"
	"github.com/nkiryanov/blogz/internal/metrics"
	"github.com/nkiryanov/blogz/internal/repository"
	"github.com/nkiryanov/blogz/internal/repository/memory"
	"github.com/nkiryanov/blogz/internal/repository/postgres"
	"github.com/nkiryanov/blogz/internal/service/auth"
	"github.com/nkiryanov/blogz/internal/service/blog"
	"github.com/nkiryanov/blogz/internal/service/session"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr  string
	MetricsAddr string
	Handler     http.Handler

	logger  logger.Logger
	closers []func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	logger, closeLog, err := logger.New(c.Environment, c.LogLevel, c.LogFile)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	app := &ServerApp{
		ListenAddr:  c.ListenAddr,
		MetricsAddr: c.MetricsAddr,
		logger:      logger,
	}
	app.closers = append(app.closers, func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "error while closing log file: %v\n", err)
		}
	})

	// Connect to the database and run migrations, or keep everything in memory
	var storage repository.Storage
	if c.DatabaseDSN != "" {
		pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
		}
		app.closers = append(app.closers, pool.Close)
		storage = postgres.NewStorage(pool)
	} else {
		logger.Warn("DATABASE_URI is not set, data is kept in memory and lost on exit")
		storage = memory.NewStorage()
	}

	// Initialize services
	sessions, err := session.New(session.Config{
		SecretKey: c.SecretKey,
		TTL:       c.SessionTTL,
		Secure:    c.SecureCookie,
	})
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating session manager. Err: %w", err)
	}
	authService, err := auth.NewService(nil, storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	blogService, err := blog.NewService(storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating blog service. Err: %w", err)
	}

	app.Handler, err = handlers.NewRouter(authService, blogService, sessions, logger)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("error while creating router. Err: %w", err)
	}

	return app, nil
}

// Close releases db connections and log file, in reverse order of acquiring
func (s *ServerApp) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Run starts http servers and closes them gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	servers := []*http.Server{
		{Addr: s.ListenAddr, Handler: s.Handler},
	}

	if s.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		servers = append(servers, &http.Server{Addr: s.MetricsAddr, Handler: mux})
	}

	g, gctx := errgroup.WithContext(ctx)

	for _, srv := range servers {
		g.Go(func() error {
			s.logger.Info("Starting server", "address", srv.Addr)

			err := srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, srv := range servers {
			if err := srv.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
				s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...", "address", srv.Addr)
				_ = srv.Close()
			}
		}
		s.logger.Info("HTTP servers stopped")

		return nil
	})

	return g.Wait()
}
