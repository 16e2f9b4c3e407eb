package usecase

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"

	"storefront/internal/logger"
)

// お問い合わせフォームを運営の受信箱へメールする
type ContactUsecase struct {
	mailer Mailer
	inbox  string
}

func NewContactUsecase(mailer Mailer, inbox string) *ContactUsecase {
	return &ContactUsecase{mailer: mailer, inbox: inbox}
}

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (u *ContactUsecase) Send(ctx context.Context, in ContactInput) (MessageOutput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	if in.Name == "" || in.Email == "" || in.Subject == "" || in.Message == "" {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "all fields are required")
	}
	if !isValidEmailFormat(in.Email) {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	subject := "[Contact] " + in.Subject
	htmlBody := fmt.Sprintf("<p><b>From:</b> %s &lt;%s&gt;</p><p>%s</p>",
		html.EscapeString(in.Name), html.EscapeString(in.Email),
		strings.ReplaceAll(html.EscapeString(in.Message), "\n", "<br>"))
	text := fmt.Sprintf("From: %s <%s>\n\n%s\n", in.Name, in.Email, in.Message)

	if err := u.mailer.Send(ctx, u.inbox, subject, htmlBody, text); err != nil {
		logger.Error(ctx).Err(err).Msg("send contact email failed")
		return MessageOutput{}, NewHTTPError(http.StatusBadGateway, "failed to send message")
	}

	logger.Info(ctx).Str("subject", in.Subject).Msg("contact message sent")
	return MessageOutput{Message: "message sent"}, nil
}
