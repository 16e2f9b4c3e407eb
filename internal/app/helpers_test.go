package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/app"
	"storefront/internal/config"
	"storefront/internal/infra/db"
	"storefront/internal/metrics"
	"storefront/internal/server"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "adminpass"
	frontendURL   = "http://shop.example.com"
)

type sentMail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// 送信内容を覚えておくだけのMailer
type captureMailer struct {
	mu    sync.Mutex
	mails []sentMail
}

func (m *captureMailer) Send(_ context.Context, to, subject, htmlBody, textBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mails = append(m.mails, sentMail{To: to, Subject: subject, HTML: htmlBody, Text: textBody})
	return nil
}

func (m *captureMailer) All() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.mails...)
}

type testEnv struct {
	BaseURL string
	HTTP    *http.Client
	Mails   *captureMailer
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type CustomerDTO struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
	Role      string `json:"role"`
}

type LoginResponse struct {
	Customer  CustomerDTO `json:"customer"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type ProductDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int64  `json:"stock"`
}

type CartLineDTO struct {
	ProductID int64      `json:"productId"`
	Quantity  int64      `json:"quantity"`
	Product   ProductDTO `json:"product"`
}

type FavoriteLineDTO struct {
	ProductID int64      `json:"productId"`
	Product   ProductDTO `json:"product"`
}

// sqliteのインメモリDBでアプリ全体を立ち上げる
// テストごとに独立したインメモリDB（マイグレーション済み）
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

func testConfig() config.Config {
	return config.Config{
		JWTSecret:            "test-secret",
		SessionTTL:           time.Hour,
		FEURL:                frontendURL,
		AppURL:               frontendURL,
		ContactInbox:         "support@example.com",
		CacheTTL:             time.Minute,
		TokenCleanupSchedule: "0 0 * * * *",
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gormDB := openTestDB(t)
	cfg := testConfig()

	mails := &captureMailer{}
	a, err := app.Build(cfg, app.Deps{
		DB:         gormDB,
		Mailer:     mails,
		Metrics:    metrics.New(),
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)
	require.NoError(t, a.Register.EnsureAdmin(context.Background(), adminEmail, adminPassword))

	srv := httptest.NewServer(server.Handler(cfg, a.Echo))
	t.Cleanup(srv.Close)

	return &testEnv{
		BaseURL: srv.URL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
		Mails:   mails,
	}
}

func (env *testEnv) doJSON(t *testing.T, method, path, bearer string, body any) (*http.Response, []byte) {
	t.Helper()
	return env.doJSONWith(t, env.HTTP, method, path, bearer, body)
}

func (env *testEnv) doJSONWith(t *testing.T, client *http.Client, method, path, bearer string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, env.BaseURL+path, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func requireStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status=%d want=%d body=%s", resp.StatusCode, want, string(body))
	}
}

func mustDecode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(%T) failed: %v body=%s", v, err, string(body))
	}
	return v
}

func toStr(v int64) string {
	return strconv.FormatInt(v, 10)
}

func (env *testEnv) register(t *testing.T, email, password, fullName string) CustomerDTO {
	t.Helper()

	resp, body := env.doJSON(t, http.MethodPost, "/api/musteri/register", "", map[string]string{
		"email":    email,
		"password": password,
		"fullName": fullName,
	})
	requireStatus(t, resp, http.StatusCreated, body)
	return mustDecode[CustomerDTO](t, body)
}

func (env *testEnv) login(t *testing.T, email, password string) LoginResponse {
	t.Helper()

	resp, body := env.doJSON(t, http.MethodPost, "/api/musteri/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	requireStatus(t, resp, http.StatusOK, body)

	out := mustDecode[LoginResponse](t, body)
	require.NotEmpty(t, strings.TrimSpace(out.Token))
	return out
}

// 会員登録してログインまで
func (env *testEnv) newCustomer(t *testing.T, email string) LoginResponse {
	t.Helper()
	env.register(t, email, "password123", "Test Customer")
	return env.login(t, email, "password123")
}

func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()

	resp, body := env.doJSON(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	requireStatus(t, resp, http.StatusOK, body)
	return mustDecode[LoginResponse](t, body).Token
}

func (env *testEnv) createProduct(t *testing.T, adminToken, name string, price int64) ProductDTO {
	t.Helper()

	resp, body := env.doJSON(t, http.MethodPost, "/api/urun", adminToken, map[string]any{
		"name":        name,
		"description": name + " description",
		"price":       price,
		"stock":       10,
	})
	requireStatus(t, resp, http.StatusCreated, body)
	return mustDecode[ProductDTO](t, body)
}

// メール本文のリンクからtokenを取り出す
func resetTokenFromMail(t *testing.T, m sentMail) string {
	t.Helper()

	i := strings.Index(m.Text, "token=")
	require.GreaterOrEqual(t, i, 0, "no token in mail: %s", m.Text)

	raw := m.Text[i+len("token="):]
	if j := strings.IndexAny(raw, " \n"); j >= 0 {
		raw = raw[:j]
	}
	token, err := url.QueryUnescape(raw)
	require.NoError(t, err)
	return token
}
