package jobs

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reabastece-api/database"
	"reabastece-api/models"
	"reabastece-api/repositories"
)

func newTestRepo(t *testing.T) *repositories.ActivityLogRepository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Initialize("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name), false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zap.NewNop()))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return repositories.NewActivityLogRepository(db)
}

func TestRunOnce_WritesHeartbeat(t *testing.T) {
	repo := newTestRepo(t)
	job := NewActivityHeartbeatJob(repo, time.Hour, 0, "test", zap.NewNop())
	job.rand = rand.New(rand.NewSource(42))
	job.now = func() time.Time { return time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC) }

	entry, err := job.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Contains(t, models.ActivityActions, entry.Action)
	assert.Equal(t, "automated_task", entry.Data["source"])
	assert.Equal(t, "test", entry.Data["environment"])
	assert.Equal(t, "2024-03-15T09:30:00Z", entry.Data["timestamp"])
	n, ok := entry.Data["random_number"].(int)
	require.True(t, ok)
	assert.GreaterOrEqual(t, n, 0)
	assert.Less(t, n, 1000)

	stored, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entry.ID, stored[0].ID)
	assert.Equal(t, "automated_task", stored[0].Data["source"])
}

func TestRunOnce_PrunesExpiredEntries(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	old := &models.ActivityLog{
		ID:        uuid.New().String(),
		Action:    "system_check",
		Data:      models.JSONData{"source": "automated_task"},
		CreatedAt: now.Add(-48 * time.Hour),
	}
	require.NoError(t, repo.Insert(context.Background(), old))

	job := NewActivityHeartbeatJob(repo, time.Hour, 24*time.Hour, "test", zap.NewNop())
	job.now = func() time.Time { return now }

	entry, err := job.RunOnce(context.Background())
	require.NoError(t, err)

	stored, err := repo.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, entry.ID, stored[0].ID)
}

func TestStartStop(t *testing.T) {
	repo := newTestRepo(t)
	job := NewActivityHeartbeatJob(repo, time.Hour, 0, "test", zap.NewNop())

	job.Start()
	require.Eventually(t, func() bool {
		entries, err := repo.Recent(context.Background(), 10)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 10*time.Millisecond)
	job.Stop()
}
