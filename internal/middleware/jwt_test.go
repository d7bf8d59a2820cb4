package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/streamhub-user-service/internal/utils"
)

const secret = "mw-access-secret"

func runJWT(t *testing.T, decorate func(*http.Request)) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/users/current-user", nil)
	decorate(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var inner echo.Context
	h := JWTAuth(secret)(func(c echo.Context) error {
		inner = c
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, inner
}

func TestJWTAuthFromBearer(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 7, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)

	rec, inner := runJWT(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok.Token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, inner)
	assert.Equal(t, uint64(7), inner.Get(CtxUserID))
	assert.Equal(t, "alice", inner.Get(CtxUsername))
}

func TestJWTAuthFromCookie(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 7, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)

	rec, inner := runJWT(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: AccessCookieName, Value: tok.Token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, inner)
	assert.Equal(t, uint64(7), inner.Get(CtxUserID))
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, inner := runJWT(t, func(*http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, inner, "handler must not run without a token")
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 7, "a@x.com", "alice", "Alice A", -1)
	require.NoError(t, err)

	rec, inner := runJWT(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok.Token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, inner)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 7, "a@x.com", "alice", "Alice A", 15)
	require.NoError(t, err)

	rec, inner := runJWT(t, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok.Token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, inner)
}
