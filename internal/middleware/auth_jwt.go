package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey       = "user_id"       // int64
	CtxUserRoleKey     = "user_role"     // string
	CtxTokenVersionKey = "token_version" // int

	// ログイン時にセットするHttpOnly Cookie
	SessionCookieName = "session"
)

// JWTIssuerが書くclaims
type sessionClaims struct {
	CustomerID   int64  `json:"sub"`
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	IssuedAt     int64  `json:"iat"`
	ExpiresAt    int64  `json:"exp"`
}

func (c *sessionClaims) Valid() error {
	if c.ExpiresAt == 0 || time.Now().Unix() >= c.ExpiresAt {
		return errors.New("token expired")
	}
	if c.CustomerID <= 0 || c.Role == "" || c.TokenVersion < 0 {
		return errors.New("malformed claims")
	}
	return nil
}

// JWT検証ミドルウェア。Bearerヘッダ、無ければsession Cookieを見る
func AuthJWT(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := extractToken(c)
			if !ok {
				return unauthorized(c)
			}

			//HS256以外は拒否
			var claims sessionClaims
			token, err := jwt.ParseWithClaims(raw, &claims, keyFunc,
				jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				return unauthorized(c)
			}

			c.Set(CtxUserIDKey, claims.CustomerID)
			c.Set(CtxUserRoleKey, claims.Role)
			c.Set(CtxTokenVersionKey, claims.TokenVersion)
			return next(c)
		}
	}
}

func extractToken(c echo.Context) (string, bool) {
	if authz := c.Request().Header.Get(echo.HeaderAuthorization); authz != "" {
		scheme, raw, found := strings.Cut(authz, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return "", false
		}
		raw = strings.TrimSpace(raw)
		return raw, raw != ""
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

type errorResponse struct {
	Error string `json:"error"`
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

func forbidden(c echo.Context, msg string) error {
	return c.JSON(http.StatusForbidden, errorResponse{Error: msg})
}
