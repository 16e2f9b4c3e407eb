package auth

import "errors"

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrFullNameRequired   = errors.New("full name required")

	// 競合
	ErrEmailAlreadyExists = errors.New("email already exists")

	// メールまたはパスワードが違う
	ErrInvalidCredentials = errors.New("invalid credentials")

	// 管理画面ログインにUSERで来た
	ErrNotAdmin = errors.New("admin only")
)
