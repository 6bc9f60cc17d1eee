package webui

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithCookie(cookie *http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		c.Request.AddCookie(cookie)
	}
	return c, rec
}

func TestSessionStore_ReusesCookieSession(t *testing.T) {
	store := NewSessionStore(time.Hour)

	c, rec := contextWithCookie(nil)
	first := store.Get(c)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	c, _ = contextWithCookie(cookies[0])
	assert.Same(t, first, store.Get(c))
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_Expiry(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	store := NewSessionStore(time.Minute)
	store.now = func() time.Time { return now }

	c, rec := contextWithCookie(nil)
	first := store.Get(c)
	cookie := rec.Result().Cookies()[0]

	now = now.Add(2 * time.Minute)
	c, _ = contextWithCookie(cookie)
	second := store.Get(c)

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, store.Len(), "expired session is swept")
}

func TestSession_PendingDeletes(t *testing.T) {
	s := newSession(time.Now())
	filter := domain.PurchaseFilter{CustomerName: "Mario"}
	s.SetResults([]domain.Purchase{{ID: 1}, {ID: 2}, {ID: 3}}, &filter)
	s.PendingDeletes[2] = true

	assert.Equal(t, []domain.Purchase{{ID: 1}, {ID: 3}}, s.Visible())
	assert.Equal(t, []domain.Purchase{{ID: 2}}, s.Pending())
	assert.True(t, s.Shows(3))
	assert.False(t, s.Shows(4))

	s.SetResults([]domain.Purchase{{ID: 2}}, &filter)
	assert.Empty(t, s.Pending())

	s.Reset()
	assert.Nil(t, s.LastFilter)
	assert.Empty(t, s.Visible())
}

func TestSession_Flashes(t *testing.T) {
	s := newSession(time.Now())
	s.AddFlash(FlashError, "one")
	s.AddFlash(FlashInfo, "two")

	assert.Equal(t, []Flash{{FlashError, "one"}, {FlashInfo, "two"}}, s.TakeFlashes())
	assert.Empty(t, s.TakeFlashes())
}
