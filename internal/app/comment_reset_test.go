package app_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentDTO struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId"`
	UserID    int64  `json:"userId"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"`
	Body      string `json:"body"`
}

type commentStatsDTO struct {
	TotalComments      int64            `json:"totalComments"`
	AverageRating      float64          `json:"averageRating"`
	RatingDistribution map[string]int64 `json:"ratingDistribution"`
}

type validateTokenDTO struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

func TestComments_RatingBounds_StatsAndDelete(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	p := env.createProduct(t, admin, "Beans", 1500)
	author := env.newCustomer(t, "author@example.com")
	other := env.newCustomer(t, "other@example.com")
	pid := toStr(p.ID)

	//コメントなしは0埋め
	resp, body := env.doJSON(t, http.MethodGet, "/api/comments/stats?productId="+pid, "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	empty := mustDecode[commentStatsDTO](t, body)
	assert.Equal(t, int64(0), empty.TotalComments)
	assert.Equal(t, 0.0, empty.AverageRating)

	for _, rating := range []int{0, 6} {
		resp, body = env.doJSON(t, http.MethodPost, "/api/comments", author.Token, map[string]any{
			"productId": p.ID, "rating": rating, "body": "hmm",
		})
		requireStatus(t, resp, http.StatusBadRequest, body)
	}
	resp, body = env.doJSON(t, http.MethodPost, "/api/comments", author.Token, map[string]any{
		"productId": p.ID, "rating": 3, "body": "   ",
	})
	requireStatus(t, resp, http.StatusBadRequest, body)

	//ログインなしは書けない
	resp, body = env.doJSON(t, http.MethodPost, "/api/comments", "", map[string]any{
		"productId": p.ID, "rating": 5, "body": "great",
	})
	requireStatus(t, resp, http.StatusUnauthorized, body)

	resp, body = env.doJSON(t, http.MethodPost, "/api/comments", author.Token, map[string]any{
		"productId": 9999, "rating": 5, "body": "great",
	})
	requireStatus(t, resp, http.StatusNotFound, body)

	resp, body = env.doJSON(t, http.MethodPost, "/api/comments", author.Token, map[string]any{
		"productId": p.ID, "rating": 1, "body": "too bitter",
	})
	requireStatus(t, resp, http.StatusCreated, body)
	first := mustDecode[commentDTO](t, body)
	assert.Equal(t, author.Customer.ID, first.UserID)

	resp, body = env.doJSON(t, http.MethodPost, "/api/comments", other.Token, map[string]any{
		"productId": p.ID, "rating": 5, "body": "great",
	})
	requireStatus(t, resp, http.StatusCreated, body)
	second := mustDecode[commentDTO](t, body)

	resp, body = env.doJSON(t, http.MethodGet, "/api/comments?productId="+pid, "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	list := mustDecode[[]commentDTO](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, "Test Customer", list[0].UserName)

	resp, body = env.doJSON(t, http.MethodGet, "/api/comments/stats?productId="+pid, "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	stats := mustDecode[commentStatsDTO](t, body)
	assert.Equal(t, int64(2), stats.TotalComments)
	assert.InDelta(t, 3.0, stats.AverageRating, 0.0001)
	var sum int64
	for _, n := range stats.RatingDistribution {
		sum += n
	}
	assert.Equal(t, stats.TotalComments, sum)
	assert.Equal(t, int64(1), stats.RatingDistribution["oneStar"])
	assert.Equal(t, int64(1), stats.RatingDistribution["fiveStar"])

	//作者以外は消せない
	resp, body = env.doJSON(t, http.MethodDelete, "/api/comments/"+toStr(first.ID), other.Token, nil)
	requireStatus(t, resp, http.StatusForbidden, body)
	resp, body = env.doJSON(t, http.MethodDelete, "/api/comments/"+toStr(first.ID), author.Token, nil)
	requireStatus(t, resp, http.StatusOK, body)

	//管理者パスもADMINのログインが必要
	resp, body = env.doJSON(t, http.MethodDelete, "/api/comments/admin/"+toStr(second.ID), "", nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)
	resp, body = env.doJSON(t, http.MethodDelete, "/api/comments/admin/"+toStr(second.ID), author.Token, nil)
	requireStatus(t, resp, http.StatusForbidden, body)
	resp, body = env.doJSON(t, http.MethodDelete, "/api/comments/admin/"+toStr(second.ID), admin, nil)
	requireStatus(t, resp, http.StatusOK, body)

	resp, body = env.doJSON(t, http.MethodGet, "/api/comments?productId="+pid, "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.Empty(t, mustDecode[[]commentDTO](t, body))
}

func TestPasswordReset_UnknownEmailLooksTheSame(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "known@example.com", "password123", "Known User")

	resp, knownBody := env.doJSON(t, http.MethodPost, "/api/passwordreset/request", "", map[string]string{"email": "known@example.com"})
	requireStatus(t, resp, http.StatusOK, knownBody)
	resp, unknownBody := env.doJSON(t, http.MethodPost, "/api/passwordreset/request", "", map[string]string{"email": "ghost@example.com"})
	requireStatus(t, resp, http.StatusOK, unknownBody)

	assert.JSONEq(t, string(knownBody), string(unknownBody))
	require.Len(t, env.Mails.All(), 1)
	assert.Equal(t, "known@example.com", env.Mails.All()[0].To)
}

func TestPasswordReset_SecondRequestInvalidatesFirst_ConfirmOnce(t *testing.T) {
	env := newTestEnv(t)
	me := env.newCustomer(t, "reset@example.com")

	for i := 0; i < 2; i++ {
		resp, body := env.doJSON(t, http.MethodPost, "/api/passwordreset/request", "", map[string]string{"email": "reset@example.com"})
		requireStatus(t, resp, http.StatusOK, body)
	}
	mails := env.Mails.All()
	require.Len(t, mails, 2)
	firstToken := resetTokenFromMail(t, mails[0])
	secondToken := resetTokenFromMail(t, mails[1])
	require.NotEqual(t, firstToken, secondToken)

	resp, body := env.doJSON(t, http.MethodGet, "/api/passwordreset/validate?token="+firstToken, "", nil)
	requireStatus(t, resp, http.StatusNotFound, body)

	resp, body = env.doJSON(t, http.MethodGet, "/api/passwordreset/validate?token="+secondToken, "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	assert.True(t, mustDecode[validateTokenDTO](t, body).Valid)

	resp, body = env.doJSON(t, http.MethodPost, "/api/passwordreset/confirm", "", map[string]string{
		"token": secondToken, "newPassword": "brandnew1", "confirmPassword": "different1",
	})
	requireStatus(t, resp, http.StatusBadRequest, body)

	resp, body = env.doJSON(t, http.MethodPost, "/api/passwordreset/confirm", "", map[string]string{
		"token": secondToken, "newPassword": "brandnew1", "confirmPassword": "brandnew1",
	})
	requireStatus(t, resp, http.StatusOK, body)

	//使用済み
	resp, body = env.doJSON(t, http.MethodGet, "/api/passwordreset/validate?token="+secondToken, "", nil)
	requireStatus(t, resp, http.StatusConflict, body)
	resp, body = env.doJSON(t, http.MethodPost, "/api/passwordreset/confirm", "", map[string]string{
		"token": secondToken, "newPassword": "again123", "confirmPassword": "again123",
	})
	requireStatus(t, resp, http.StatusConflict, body)

	//古いセッションは切れ、新しいパスワードでログインできる
	resp, body = env.doJSON(t, http.MethodGet, "/api/musteri/me", me.Token, nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)
	env.login(t, "reset@example.com", "brandnew1")
}
