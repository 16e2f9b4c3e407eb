package task

import (
	"context"
	"time"

	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/robfig/cron/v3"
)

const cleanupTimeout = time.Minute

// 使用済み・期限切れのパスワード再設定トークンを定期削除
type ResetTokenCleanupTask struct {
	tokens   repo.ResetTokenRepository
	schedule string
	cron     *cron.Cron
	now      func() time.Time
}

// scheduleは秒ありのcron式（"0 0 * * * *" = 毎時0分）
func NewResetTokenCleanupTask(tokens repo.ResetTokenRepository, schedule string) *ResetTokenCleanupTask {
	return &ResetTokenCleanupTask{
		tokens:   tokens,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		now:      time.Now,
	}
}

func (t *ResetTokenCleanupTask) Start() error {
	_, err := t.cron.AddFunc(t.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()

		if _, err := t.RunOnce(ctx); err != nil {
			logger.Error(ctx).Err(err).Msg("reset token cleanup failed")
		}
	})
	if err != nil {
		return err
	}

	t.cron.Start()
	logger.Info(context.Background()).Str("schedule", t.schedule).Msg("reset token cleanup scheduled")
	return nil
}

// 実行中のジョブが終わるまで待つ
func (t *ResetTokenCleanupTask) Stop() {
	<-t.cron.Stop().Done()
}

func (t *ResetTokenCleanupTask) RunOnce(ctx context.Context) (int64, error) {
	n, err := t.tokens.DeleteStale(ctx, t.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Info(ctx).Int64("deleted", n).Msg("stale reset tokens deleted")
	}
	return n, nil
}
