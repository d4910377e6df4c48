package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"rideNext/internal/api"
	"rideNext/internal/config"
	"rideNext/internal/services"
	"rideNext/internal/session"
)

type application struct {
	cfg      config.Config
	errorLog *log.Logger
	infoLog  *log.Logger
	logger   *slog.Logger

	in  io.Reader
	out io.Writer

	store    session.Store
	sessions *session.Manager
	closers  []func() error

	auth     *services.AuthService
	rides    *services.RideService
	bookings *services.BookingService
}

func initializeApp(cfg config.Config, errorLog, infoLog *log.Logger) (*application, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	app := &application{
		cfg:      cfg,
		errorLog: errorLog,
		infoLog:  infoLog,
		logger:   logger,
		in:       os.Stdin,
		out:      os.Stdout,
	}
	if err := app.openSessionStore(); err != nil {
		return nil, err
	}
	if err := app.wire(); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (app *application) openSessionStore() error {
	switch app.cfg.Session.Backend {
	case config.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     app.cfg.Redis.Addr,
			Password: app.cfg.Redis.Password,
			DB:       app.cfg.Redis.DB,
		})
		app.store = session.NewRedisStore(rdb, app.cfg.Redis.Key)
		app.closers = append(app.closers, rdb.Close)
	case config.SessionBackendMemory:
		app.store = session.NewMemoryStore()
	case config.SessionBackendFile:
		app.store = session.NewFileStore(app.cfg.Session.File)
	default:
		return fmt.Errorf("unknown session backend %q", app.cfg.Session.Backend)
	}
	return nil
}

// wire builds the backend client and the facades on top of the session store.
func (app *application) wire() error {
	app.sessions = session.NewManager(app.store)

	client, err := api.NewClient(api.Config{
		BaseURL: app.cfg.API.BaseURL,
		Timeout: app.cfg.Timeout(),
		Tokens:  app.sessions,
		Logger:  app.logger,
	})
	if err != nil {
		return err
	}

	opts := services.Options{Strict: app.cfg.API.StrictResponses, Logger: app.logger}
	app.auth = services.NewAuthService(client, app.sessions, opts)
	app.rides = services.NewRideService(client, opts)
	app.bookings = services.NewBookingService(client, opts)
	return nil
}

func (app *application) close() {
	for _, c := range app.closers {
		if err := c(); err != nil {
			app.errorLog.Printf("close: %v", err)
		}
	}
}
