package cmd

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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reabastece-api/database"
	"reabastece-api/jobs"
	"reabastece-api/repositories"
	"reabastece-api/routes"
	"reabastece-api/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the heartbeat job",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db, log)

	if err := database.Migrate(db, log); err != nil {
		log.Error("failed to migrate database", zap.Error(err))
		return err
	}

	if cfg.SeedData {
		if err := database.SeedData(db, log); err != nil {
			log.Warn("failed to seed database", zap.Error(err))
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	emailService := services.NewEmailService(cfg, log)
	router := routes.NewRouter(ctx, db, cfg, log, emailService)

	heartbeat := jobs.NewActivityHeartbeatJob(
		repositories.NewActivityLogRepository(db),
		cfg.HeartbeatInterval.Duration,
		cfg.ActivityRetention.Duration,
		cfg.Environment,
		log,
	)
	heartbeat.Start()
	defer heartbeat.Stop()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("starting Reabastece API server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("database_driver", cfg.DatabaseDriver),
	)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		log.Error("http server failed", zap.Error(err))
		return fmt.Errorf("http server: %w", err)
	}
}
