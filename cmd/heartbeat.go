package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reabastece-api/jobs"
	"reabastece-api/repositories"
)

var heartbeatCmd = &cobra.Command{
	Use:   "heartbeat",
	Short: "Write one activity heartbeat entry and exit",
	RunE:  runHeartbeat,
}

func init() {
	rootCmd.AddCommand(heartbeatCmd)
}

func runHeartbeat(_ *cobra.Command, _ []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()
	defer closeDB(db, log)

	job := jobs.NewActivityHeartbeatJob(
		repositories.NewActivityLogRepository(db),
		cfg.HeartbeatInterval.Duration,
		cfg.ActivityRetention.Duration,
		cfg.Environment,
		log,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	entry, err := job.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("writing heartbeat: %w", err)
	}
	fmt.Printf("  Heartbeat %s written (%s)\n", entry.ID, entry.Action)
	return nil
}
