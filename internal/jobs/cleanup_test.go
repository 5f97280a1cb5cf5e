package jobs

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/briefboard/briefboard-server/internal/model"
)

type mockSessionRepo struct {
	deleteExpiredCount int64
	calls              atomic.Int64
}

func (m *mockSessionRepo) Create(ctx context.Context, params model.CreateSessionParams) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.Session, error) {
	return nil, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls.Add(1)
	return m.deleteExpiredCount, nil
}

func TestCleanupJob(t *testing.T) {
	t.Run("runs immediately on start", func(t *testing.T) {
		repo := &mockSessionRepo{deleteExpiredCount: 3}
		job := NewCleanupJob(repo, time.Hour)

		job.Start()
		defer job.Stop()

		assert.Eventually(t, func() bool {
			return repo.calls.Load() >= 1
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("ticks on the interval", func(t *testing.T) {
		repo := &mockSessionRepo{}
		job := NewCleanupJob(repo, 20*time.Millisecond)

		job.Start()
		defer job.Stop()

		assert.Eventually(t, func() bool {
			return repo.calls.Load() >= 3
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("stop halts the loop", func(t *testing.T) {
		repo := &mockSessionRepo{}
		job := NewCleanupJob(repo, 20*time.Millisecond)

		job.Start()
		job.Stop()

		time.Sleep(50 * time.Millisecond)
		after := repo.calls.Load()
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, after, repo.calls.Load())
	})
}
