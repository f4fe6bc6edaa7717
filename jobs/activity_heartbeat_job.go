// File: /jobs/activity_heartbeat_job.go
package jobs

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reabastece-api/metrics"
	"reabastece-api/models"
	"reabastece-api/repositories"
)

// ActivityHeartbeatJob periodically writes an activity log entry so that the
// database sees traffic even when nobody uses the app.
type ActivityHeartbeatJob struct {
	repo        *repositories.ActivityLogRepository
	log         *zap.Logger
	interval    time.Duration
	retention   time.Duration
	environment string

	ticker *time.Ticker
	done   chan bool

	mu   sync.Mutex
	rand *rand.Rand
	now  func() time.Time
}

// NewActivityHeartbeatJob creates a job that runs every interval. A positive
// retention also prunes entries older than that on every run.
func NewActivityHeartbeatJob(repo *repositories.ActivityLogRepository, interval, retention time.Duration, environment string, log *zap.Logger) *ActivityHeartbeatJob {
	return &ActivityHeartbeatJob{
		repo:        repo,
		log:         log,
		interval:    interval,
		retention:   retention,
		environment: environment,
		done:        make(chan bool),
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

// Start begins the heartbeat job
func (j *ActivityHeartbeatJob) Start() {
	j.ticker = time.NewTicker(j.interval)
	j.log.Info("activity heartbeat job started", zap.Duration("interval", j.interval))

	go func() {
		// Run immediately on start
		j.run()

		for {
			select {
			case <-j.ticker.C:
				j.run()
			case <-j.done:
				j.log.Info("activity heartbeat job stopped")
				return
			}
		}
	}()
}

// Stop stops the heartbeat job
func (j *ActivityHeartbeatJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *ActivityHeartbeatJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := j.RunOnce(ctx); err != nil {
		j.log.Error("activity heartbeat failed", zap.Error(err))
	}
}

// RunOnce writes a single heartbeat entry and prunes expired ones.
func (j *ActivityHeartbeatJob) RunOnce(ctx context.Context) (*models.ActivityLog, error) {
	now := j.now()

	j.mu.Lock()
	action := models.ActivityActions[j.rand.Intn(len(models.ActivityActions))]
	number := j.rand.Intn(1000)
	j.mu.Unlock()

	entry := &models.ActivityLog{
		ID:     uuid.New().String(),
		Action: action,
		Data: models.JSONData{
			"source":        "automated_task",
			"random_number": number,
			"timestamp":     now.UTC().Format(time.RFC3339),
			"environment":   j.environment,
		},
		CreatedAt: now,
	}

	err := j.repo.Insert(ctx, entry)
	metrics.RecordHeartbeat(err)
	if err != nil {
		return nil, err
	}
	j.log.Info("activity heartbeat written", zap.String("action", action), zap.Int("random_number", number))

	if j.retention > 0 {
		removed, err := j.repo.DeleteOlderThan(ctx, now.Add(-j.retention))
		if err != nil {
			// The heartbeat itself was written.
			j.log.Warn("failed to prune activity log", zap.Error(err))
		} else if removed > 0 {
			j.log.Info("pruned activity log", zap.Int64("removed", removed))
		}
	}

	return entry, nil
}
