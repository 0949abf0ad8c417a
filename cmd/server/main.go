// @title BrokerDesk API
// @version 1.0
// @description Back-office API for insurance brokerage client records and their documents.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	_ "brokerdesk/docs"
	"brokerdesk/internal/app"
	"brokerdesk/internal/config"
	"brokerdesk/internal/handler"
	"brokerdesk/internal/router"
	"brokerdesk/internal/scheduler"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" || cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	// Initialize handlers
	health := handler.NewHealthHandler(a.DB)
	if c := a.Cache(); c != nil {
		health.WithCache(c)
	}
	handlers := router.Handlers{
		Auth:     handler.NewAuthHandler(a.Auth),
		User:     handler.NewUserHandler(a.UserSvc),
		Client:   handler.NewClientHandler(a.ClientSvc),
		Document: handler.NewDocumentHandler(a.Documents),
		Stats:    handler.NewStatsHandler(a.Stats),
		Health:   health,
	}
	r := router.Setup(a.Auth, handlers, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Metrics:        cfg.Metrics.Enabled,
		Swagger:        cfg.Server.Environment != "production",
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var sched *scheduler.Scheduler
	if cfg.Repair.Schedule != "" {
		sched, err = scheduler.New(a.Documents, cfg.Repair.Schedule)
		if err != nil {
			return err
		}
		sched.Start()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if sched != nil {
			if err := sched.Stop(shutdownCtx); err != nil {
				log.Printf("scheduler stop: %v", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
