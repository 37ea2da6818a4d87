package mw

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adm "github.com/Med359-a/NDMedSphere/internal/auth/admin"
)

func exchangeFixture(t *testing.T) (http.Handler, *bool) {
	t.Helper()
	gate := adm.NewTokenGate("s3cret", false)
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	l := log.New(io.Discard, "", 0)
	return AdminExchange(gate, l)(next), &reached
}

func adminCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == adm.CookieName {
			return c
		}
	}
	return nil
}

func TestAdminExchange_SetsCookieAndRedirects(t *testing.T) {
	h, reached := exchangeFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/library?admin=s3cret&tab=books", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.False(t, *reached)
	// редирект на тот же URL, но без секрета
	assert.Equal(t, "/library?tab=books", rec.Header().Get("Location"))

	c := adminCookie(rec)
	require.NotNil(t, c)
	assert.Equal(t, "s3cret", c.Value)
	assert.True(t, c.HttpOnly)
}

func TestAdminExchange_LogoutClearsCookie(t *testing.T) {
	h, _ := exchangeFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/library?admin=logout", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	c := adminCookie(rec)
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Negative(t, c.MaxAge)
}

func TestAdminExchange_MismatchRedirectsWithoutCookie(t *testing.T) {
	h, _ := exchangeFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/library?admin=wrong", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Nil(t, adminCookie(rec))
}

func TestAdminExchange_SkipsAPIPaths(t *testing.T) {
	h, reached := exchangeFixture(t)

	// на API-путях ?admin= — обычный параметр, обмен не вмешивается
	for _, path := range []string{"/v1/books?admin=logout", "/v1/videos?admin=s3cret", "/healthz?admin=s3cret", "/readyz?admin=s3cret"} {
		*reached = false
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		assert.True(t, *reached, "path %s", path)
		assert.Nil(t, adminCookie(rec), "path %s", path)
	}
}

func TestAdminExchange_NilGatePassesThrough(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	h := AdminExchange(nil, log.New(io.Discard, "", 0))(next)

	req := httptest.NewRequest(http.MethodGet, "/library?admin=anything", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestAdminExchange_NoParamPassesThrough(t *testing.T) {
	h, reached := exchangeFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/library", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *reached)
}
