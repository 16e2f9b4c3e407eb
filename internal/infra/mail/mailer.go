package mail

import (
	"context"
	"fmt"

	"storefront/internal/logger"

	"github.com/keighl/postmark"
)

// Postmark経由でメール送信
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(serverToken, from string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

func (m *PostmarkMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	res, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	logger.Info(ctx).Str("to", to).Str("message_id", res.MessageID).Msg("email sent")
	return nil
}

// トークン未設定（ローカル開発）用。本文はログに出すだけ
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	logger.Info(ctx).
		Str("to", to).
		Str("subject", subject).
		Str("body", textBody).
		Msg("email (not sent: POSTMARK_SERVER_TOKEN is empty)")
	return nil
}
