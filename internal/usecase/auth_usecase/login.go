package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/logger"
	"storefront/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// handlerがJSONとCookieにする値
type LoginOutput struct {
	Customer  model.Customer
	Token     string
	ExpiresAt time.Time
}

type LoginUsecase struct {
	customers repository.CustomerRepository
	verifier  PasswordVerifier
	issuer    AccessTokenIssuer
	clock     Clock
}

func NewLoginUsecase(
	customers repository.CustomerRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		customers: customers,
		verifier:  verifier,
		issuer:    issuer,
		clock:     clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return out, ErrInvalidCredentials
	}

	//emailで顧客取得
	c, err := u.customers.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//パスワード照合
	if !u.verifier.Verify(in.Password, c.PasswordHash) {
		return out, ErrInvalidCredentials
	}

	token, exp, err := u.issuer.Issue(c.ID, c.Role, c.TokenVersion, u.clock.Now())
	if err != nil {
		return out, err
	}

	logger.Info(ctx).Int64("customer_id", c.ID).Msg("customer logged in")
	out.Customer = *c
	out.Token = token
	out.ExpiresAt = exp
	return out, nil
}

// 管理画面用。ADMIN以外はErrNotAdmin
func (u *LoginUsecase) ExecuteAdmin(ctx context.Context, in LoginInput) (LoginOutput, error) {
	out, err := u.Execute(ctx, in)
	if err != nil {
		return LoginOutput{}, err
	}
	if out.Customer.Role != model.RoleAdmin {
		return LoginOutput{}, ErrNotAdmin
	}
	return out, nil
}
