package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
)

const (
	resetTokenTTL     = time.Hour
	MinPasswordLength = 6

	resetRequestedMessage = "if the email is registered, a reset link has been sent"
)

type PasswordResetUsecase struct {
	customers repo.CustomerRepository
	tokens    repo.ResetTokenRepository
	tx        repo.TransactionManager
	hasher    PasswordHasher
	mailer    Mailer
	clock     Clock
	appURL    string
}

func NewPasswordResetUsecase(
	customers repo.CustomerRepository,
	tokens repo.ResetTokenRepository,
	tx repo.TransactionManager,
	hasher PasswordHasher,
	mailer Mailer,
	clock Clock,
	appURL string,
) *PasswordResetUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &PasswordResetUsecase{
		customers: customers,
		tokens:    tokens,
		tx:        tx,
		hasher:    hasher,
		mailer:    mailer,
		clock:     clock,
		appURL:    strings.TrimRight(appURL, "/"),
	}
}

type MessageOutput struct {
	Message string `json:"message"`
}

type ValidateTokenOutput struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

type ConfirmResetInput struct {
	Token           string
	NewPassword     string
	ConfirmPassword string
}

// 未登録のemailでも同じ応答を返す（アカウントの有無を漏らさない）
func (u *PasswordResetUsecase) RequestReset(ctx context.Context, email string) (MessageOutput, error) {
	ok := MessageOutput{Message: resetRequestedMessage}

	email = strings.TrimSpace(email)
	if email == "" {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "email required")
	}

	c, err := u.customers.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		logger.Warn(ctx).Msg("password reset requested for unknown email")
		return ok, nil
	}
	if err != nil {
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	plain, hash, err := newRandomTokenAndHash()
	if err != nil {
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	//古い未使用トークンを消してから発行（1顧客に有効トークンは1つ）
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.ResetTokens().DeleteUnusedByCustomer(ctx, c.ID); err != nil {
			return err
		}
		return r.ResetTokens().Create(ctx, &model.PasswordResetToken{
			CustomerID: c.ID,
			TokenHash:  hash,
			ExpiresAt:  now.Add(resetTokenTTL),
			CreatedAt:  now,
		})
	})
	if err != nil {
		logger.Error(ctx).Err(err).Int64("customer_id", c.ID).Msg("issue reset token failed")
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", u.appURL, url.QueryEscape(plain))
	subject, htmlBody, text := resetEmail(c.FullName(), link)

	//送信失敗でも応答は変えない
	if err := u.mailer.Send(ctx, c.Email, subject, htmlBody, text); err != nil {
		logger.Error(ctx).Err(err).Int64("customer_id", c.ID).Msg("send reset email failed")
	} else {
		logger.Info(ctx).Int64("customer_id", c.ID).Msg("password reset requested")
	}
	return ok, nil
}

func (u *PasswordResetUsecase) ValidateToken(ctx context.Context, token string) (ValidateTokenOutput, error) {
	if _, err := u.findUsable(ctx, token); err != nil {
		return ValidateTokenOutput{}, err
	}
	return ValidateTokenOutput{Valid: true, Message: "token is valid"}, nil
}

// トークンを使用済みにしてからパスワードを差し替える（同じtx）
func (u *PasswordResetUsecase) ConfirmReset(ctx context.Context, in ConfirmResetInput) (MessageOutput, error) {
	if len(in.NewPassword) < MinPasswordLength {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "password must be at least 6 characters")
	}
	if in.NewPassword != in.ConfirmPassword {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "passwords do not match")
	}

	t, err := u.findUsable(ctx, in.Token)
	if err != nil {
		return MessageOutput{}, err
	}

	hashed, err := u.hasher.Hash(in.NewPassword)
	if err != nil {
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.ResetTokens().MarkUsed(ctx, t.ID); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "token already used")
			}
			return err
		}
		if err := r.Customers().UpdatePassword(ctx, t.CustomerID, hashed); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "customer not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return MessageOutput{}, err
		}
		logger.Error(ctx).Err(err).Int64("customer_id", t.CustomerID).Msg("confirm reset failed")
		return MessageOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logger.Info(ctx).Int64("customer_id", t.CustomerID).Msg("password reset completed")
	return MessageOutput{Message: "password has been reset"}, nil
}

// 不明:404 / 使用済み:409 / 期限切れ:400
func (u *PasswordResetUsecase) findUsable(ctx context.Context, token string) (*model.PasswordResetToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "token required")
	}

	t, err := u.tokens.FindByTokenHash(ctx, hashToken(token))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusNotFound, "invalid token")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if t.Used {
		return nil, NewHTTPError(http.StatusConflict, "token already used")
	}
	if !t.ValidAt(u.clock.Now()) {
		return nil, NewHTTPError(http.StatusBadRequest, "token expired")
	}
	return t, nil
}

func resetEmail(name, link string) (subject, htmlBody, text string) {
	subject = "Password reset request"
	htmlBody = fmt.Sprintf(
		"<p>Hello %s,</p><p>We received a request to reset your password. The link below is valid for 1 hour.</p>"+
			"<p><a href=\"%s\">Reset password</a></p><p>If you did not request this, you can ignore this email.</p>",
		html.EscapeString(name), html.EscapeString(link),
	)
	text = fmt.Sprintf(
		"Hello %s,\n\nWe received a request to reset your password. The link below is valid for 1 hour.\n\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		name, link,
	)
	return subject, htmlBody, text
}
