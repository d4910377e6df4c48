package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/cors"

	"rideNext/internal/stubserver"
)

func (app *application) cmdServeStub(ctx context.Context, args []string) error {
	fs := app.flagSet("serve-stub")
	addr := fs.String("addr", app.cfg.Stub.Addr, "HTTP network address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	backend, err := stubserver.New(stubserver.Config{
		SigningKey: app.cfg.Stub.SigningKey,
		InfoLog:    app.infoLog,
		ErrorLog:   app.errorLog,
	})
	if err != nil {
		return err
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
	})

	srv := &http.Server{
		Addr:         *addr,
		ErrorLog:     app.errorLog,
		Handler:      c.Handler(backend.Routes()),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.infoLog.Printf("Starting stub backend on %s", *addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		app.infoLog.Print("Shutting down stub backend")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
