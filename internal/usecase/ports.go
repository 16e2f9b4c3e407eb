package usecase

import (
	"context"
	"time"
)

// メール送信の約束（infra/mailが実装）
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// カート・お気に入りの更新回数を数える（metricsが実装）
type MutationRecorder interface {
	RecordMutation(collection, op string)
}

type nopRecorder struct{}

func (nopRecorder) RecordMutation(string, string) {}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// パスワードのhash化と照合（auth_usecaseのbcrypt実装を注入）
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}
