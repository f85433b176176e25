package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventmgr/internal/http-server/handlers/calendar/getCalendar"
	"eventmgr/internal/http-server/handlers/event/getEvent"
	"eventmgr/internal/http-server/handlers/event/getEvents"
	"eventmgr/internal/http-server/middleware/mwlogger"
	"eventmgr/internal/lib/logger/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a read-only JSON and iCalendar feed of the events.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "listen address (default from config)"},
		},
		Action: func(c *cli.Context) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			address := e.cfg.HTTPServer.Address
			if c.IsSet("address") {
				address = c.String("address")
			}

			router := chi.NewRouter()

			router.Use(middleware.RequestID)
			router.Use(mwlogger.New(e.log))
			router.Use(middleware.Recoverer)

			router.Get("/events", getEvents.New(e.log, e.events))
			router.Get("/events/{id}", getEvent.New(e.log, e.events))
			router.Get("/calendar.ics", getCalendar.New(e.log, e.events, e.loc, time.Now))

			srv := &http.Server{
				Addr:         address,
				Handler:      router,
				ReadTimeout:  e.cfg.HTTPServer.Timeout,
				WriteTimeout: e.cfg.HTTPServer.Timeout,
				IdleTimeout:  e.cfg.HTTPServer.IdleTimeout,
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			serveErr := make(chan error, 1)
			go func() {
				e.log.Info("starting server", slog.String("address", address))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serveErr <- err
				}
				close(serveErr)
			}()

			select {
			case err := <-serveErr:
				if err != nil {
					e.log.Error("failed to start server", sl.Err(err))
					return err
				}
			case <-ctx.Done():
				e.log.Info("server stopping")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				e.log.Error("failed to shutdown server", sl.Err(err))
				return err
			}

			e.log.Info("server stopped")
			return nil
		},
	}
}
