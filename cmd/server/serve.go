package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"sevasetu/internal/config"
	"sevasetu/internal/controllers"
	"sevasetu/internal/routes"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if !a.cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.Migrate(a.db); err != nil {
		return err
	}

	hub := controllers.NewLeaderboardHub()
	defer hub.Close()

	svc, tokens, err := a.service(ctx, hub)
	if err != nil {
		return err
	}

	router, err := routes.SetupRouter(routes.Dependencies{
		DB:          a.db,
		Service:     svc,
		Tokens:      tokens,
		Hub:         hub,
		AccessLog:   a.logWriter,
		CORSOrigins: a.cfg.CORSOrigins,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  time.Duration(a.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(a.cfg.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("port", a.cfg.ServerPort).Infof("server starting http://localhost:%d", a.cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logrus.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
