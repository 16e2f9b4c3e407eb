package client_test

import (
	"net/http"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

// 商品1（1000円）と商品2（250円）を作る
func seedCatalog(t *testing.T, baseURL string) {
	t.Helper()
	rc := resty.New().SetBaseURL(baseURL)

	var login struct {
		Token string `json:"token"`
	}
	resp, err := rc.R().
		SetBody(map[string]string{"email": adminEmail, "password": adminPassword}).
		SetResult(&login).
		Post("/api/admin/login")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode(), resp.String())

	for _, p := range []map[string]any{
		{"name": "Beans", "price": 1000, "stock": 10},
		{"name": "Filter", "price": 250, "stock": 10},
	} {
		resp, err := rc.R().SetAuthToken(login.Token).SetBody(p).Post("/api/urun")
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
	}
}

func registerCustomer(t *testing.T, baseURL, email string) {
	t.Helper()

	resp, err := resty.New().SetBaseURL(baseURL).R().
		SetBody(map[string]string{"email": email, "password": "password123", "fullName": "Test Customer"}).
		Post("/api/musteri/register")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
}
