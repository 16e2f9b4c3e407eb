package app_test

import (
	"net/http"
	"net/http/cookiejar"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_DuplicateEmailIsConflict(t *testing.T) {
	env := newTestEnv(t)

	c := env.register(t, "Taro@Example.com", "password123", "Taro Yamada")
	assert.Equal(t, "taro@example.com", c.Email)
	assert.Equal(t, "Taro", c.FirstName)
	assert.Equal(t, "Yamada", c.LastName)
	assert.Equal(t, "USER", c.Role)

	resp, body := env.doJSON(t, http.MethodPost, "/api/musteri/register", "", map[string]string{
		"email": "taro@example.com", "password": "password123", "fullName": "Other",
	})
	requireStatus(t, resp, http.StatusConflict, body)

	resp, body = env.doJSON(t, http.MethodPost, "/api/musteri/register", "", map[string]string{
		"email": "short@example.com", "password": "123", "fullName": "Short",
	})
	requireStatus(t, resp, http.StatusBadRequest, body)
	assert.Equal(t, "password must be at least 6 characters", mustDecode[ErrorResponse](t, body).Error)
}

func TestLogin_WrongPasswordIsUnauthorized(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@example.com", "password123", "A B")

	resp, body := env.doJSON(t, http.MethodPost, "/api/musteri/login", "", map[string]string{
		"email": "a@example.com", "password": "nope-nope",
	})
	requireStatus(t, resp, http.StatusUnauthorized, body)

	//管理画面は一般会員を通さない
	resp, body = env.doJSON(t, http.MethodPost, "/api/admin/login", "", map[string]string{
		"email": "a@example.com", "password": "password123",
	})
	requireStatus(t, resp, http.StatusForbidden, body)
}

func TestSessionCookie_MeAndLogout(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "cookie@example.com", "password123", "Cookie Monster")

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	resp, body := env.doJSONWith(t, client, http.MethodPost, "/api/musteri/login", "", map[string]string{
		"email": "cookie@example.com", "password": "password123",
	})
	requireStatus(t, resp, http.StatusOK, body)
	login := mustDecode[LoginResponse](t, body)

	var session *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "session" {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)

	//Cookieだけで本人確認できる
	resp, body = env.doJSONWith(t, client, http.MethodGet, "/api/musteri/me", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	me := mustDecode[CustomerDTO](t, body)
	assert.Equal(t, login.Customer.ID, me.ID)
	assert.Equal(t, "Cookie Monster", me.FullName)

	resp, body = env.doJSONWith(t, client, http.MethodPost, "/api/musteri/logout", "", nil)
	requireStatus(t, resp, http.StatusOK, body)

	resp, body = env.doJSONWith(t, client, http.MethodGet, "/api/musteri/me", "", nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)

	//発行済みトークンも無効
	resp, body = env.doJSON(t, http.MethodGet, "/api/musteri/me", login.Token, nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)
}

func TestProfileAndPasswordChange(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "taken@example.com", "password123", "Taken Person")
	me := env.newCustomer(t, "me@example.com")
	path := "/api/musteri/" + toStr(me.Customer.ID)

	resp, body := env.doJSON(t, http.MethodPut, path, me.Token, map[string]string{
		"firstName": "Hanako", "lastName": "Suzuki", "phone": "090", "email": "taken@example.com",
	})
	requireStatus(t, resp, http.StatusConflict, body)

	resp, body = env.doJSON(t, http.MethodPut, path, me.Token, map[string]string{
		"firstName": "Hanako", "lastName": "Suzuki", "phone": "090", "email": "hanako@example.com",
	})
	requireStatus(t, resp, http.StatusOK, body)
	updated := mustDecode[CustomerDTO](t, body)
	assert.Equal(t, "Hanako Suzuki", updated.FullName)
	assert.Equal(t, "hanako@example.com", updated.Email)

	resp, body = env.doJSON(t, http.MethodPut, path+"/password", me.Token, map[string]string{
		"currentPassword": "wrong-password", "newPassword": "newpass123",
	})
	requireStatus(t, resp, http.StatusBadRequest, body)

	resp, body = env.doJSON(t, http.MethodPut, path+"/password", me.Token, map[string]string{
		"currentPassword": "password123", "newPassword": "newpass123",
	})
	requireStatus(t, resp, http.StatusOK, body)

	//変更前のトークンは使えない
	resp, body = env.doJSON(t, http.MethodGet, "/api/musteri/me", me.Token, nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)

	env.login(t, "hanako@example.com", "newpass123")
}

func TestAdmin_ListAndDeleteCustomer_Audited(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	victim := env.newCustomer(t, "victim@example.com")
	other := env.newCustomer(t, "other@example.com")

	//一般会員は一覧・削除できない
	resp, body := env.doJSON(t, http.MethodGet, "/api/musteri", other.Token, nil)
	requireStatus(t, resp, http.StatusForbidden, body)
	resp, body = env.doJSON(t, http.MethodGet, "/api/musteri/"+toStr(victim.Customer.ID), other.Token, nil)
	requireStatus(t, resp, http.StatusForbidden, body)

	resp, body = env.doJSON(t, http.MethodGet, "/api/musteri", admin, nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Len(t, mustDecode[[]CustomerDTO](t, body), 3)

	resp, body = env.doJSON(t, http.MethodDelete, "/api/musteri/"+toStr(victim.Customer.ID), admin, nil)
	requireStatus(t, resp, http.StatusNoContent, body)

	resp, body = env.doJSON(t, http.MethodGet, "/api/musteri/me", victim.Token, nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)

	resp, body = env.doJSON(t, http.MethodGet, "/api/admin/audit-logs?action=DELETE_CUSTOMER&resourceId="+toStr(victim.Customer.ID), admin, nil)
	requireStatus(t, resp, http.StatusOK, body)
	page := mustDecode[struct {
		Items []map[string]any `json:"items"`
		Total int64            `json:"total"`
	}](t, body)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, "customer", page.Items[0]["resourceType"])

	resp, body = env.doJSON(t, http.MethodGet, "/api/admin/audit-logs?from=yesterday", admin, nil)
	requireStatus(t, resp, http.StatusBadRequest, body)
}

func TestProducts_PublicReadAdminWrite(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	me := env.newCustomer(t, "shopper@example.com")

	newProduct := map[string]any{"name": "Dark Roast", "description": "Smoky beans", "price": 1200}

	resp, body := env.doJSON(t, http.MethodPost, "/api/urun", "", newProduct)
	requireStatus(t, resp, http.StatusUnauthorized, body)
	resp, body = env.doJSON(t, http.MethodPost, "/api/urun", me.Token, newProduct)
	requireStatus(t, resp, http.StatusForbidden, body)

	p := env.createProduct(t, admin, "Dark Roast", 1200)
	env.createProduct(t, admin, "Green Tea", 900)

	resp, body = env.doJSON(t, http.MethodGet, "/api/urun/search?q=ROAST", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	found := mustDecode[[]ProductDTO](t, body)
	require.Len(t, found, 1)
	assert.Equal(t, p.ID, found[0].ID)

	resp, body = env.doJSON(t, http.MethodPut, "/api/urun/"+toStr(p.ID), admin, map[string]any{
		"name": "Dark Roast", "description": "Smoky beans", "price": 1500,
	})
	requireStatus(t, resp, http.StatusNoContent, body)

	resp, body = env.doJSON(t, http.MethodGet, "/api/urun/"+toStr(p.ID), "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Equal(t, int64(1500), mustDecode[ProductDTO](t, body).Price)

	resp, body = env.doJSON(t, http.MethodGet, "/api/urun", "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Len(t, mustDecode[[]ProductDTO](t, body), 2)

	resp, body = env.doJSON(t, http.MethodGet, "/api/urun/9999", "", nil)
	requireStatus(t, resp, http.StatusNotFound, body)
}
